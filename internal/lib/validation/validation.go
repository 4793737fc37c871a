// Package validation настраивает валидатор входящих запросов.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subsense/internal/models"
)

// New возвращает валидатор с тегами billing_cycle, category и nonzero_cost.
// В ошибках поля называются по json-тегу.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Ошибка регистрации возможна только при пустом имени тега.
	_ = v.RegisterValidation("billing_cycle", func(fl validator.FieldLevel) bool {
		return models.BillingCycle(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("nonzero_cost", func(fl validator.FieldLevel) bool {
		return !models.Cost(fl.Field().String()).Missing()
	})
	return v
}
