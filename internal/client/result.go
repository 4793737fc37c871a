package client

import (
	"fmt"
	"net/http"
)

// Result - итог асинхронной операции: либо значение, либо причина отказа.
// Вызывающий код обязан проверить OK перед использованием Value.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok создаёт успешный результат.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail создаёт неуспешный результат.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK сообщает об успехе операции.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap возвращает значение и ошибку в привычной для Go форме.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// APIError - ответ сервера с неуспешным HTTP-статусом.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}
