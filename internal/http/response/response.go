// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов с ошибками HTTP-обработчиков.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Тексты ошибок, которые видит клиент.
const (
	MsgUnauthorized          = "Unauthorized"
	MsgUserNotFound          = "User not found"
	MsgSubscriptionNotFound  = "Subscription not found"
	MsgMissingRequiredFields = "Missing required fields"
	MsgInvalidRequestBody    = "Invalid request body"
	MsgTooManyRequests       = "Too many requests"
	MsgInternalServerError   = "Internal server error"
)

// Response описывает стандартную структуру JSON-ответа сервера.
// Поле Status - статус запроса ("OK" или "Error").
// Поле Error - текст ошибки (опционально, при неуспехе).
// Поле Data - данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse - структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"Missing required fields"`
}

const (
	// StatusOK - значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError - значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ответ на основе ошибок валидации.
// Если не хватает хотя бы одного обязательного поля (нулевая стоимость тоже считается пропуском), возвращается
// MsgMissingRequiredFields, иначе нарушения перечисляются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required", "nonzero_cost":
			return Error(MsgMissingRequiredFields)
		case "billing_cycle":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of weekly, monthly, yearly", err.Field()))
		case "category":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a known category", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}
