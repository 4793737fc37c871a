// Package models содержит доменные структуры, описывающие подписку и пользователя,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BillingCycle - период списания средств по подписке.
type BillingCycle string

const (
	// BillingWeekly - еженедельное списание.
	BillingWeekly BillingCycle = "weekly"
	// BillingMonthly - ежемесячное списание.
	BillingMonthly BillingCycle = "monthly"
	// BillingYearly - ежегодное списание.
	BillingYearly BillingCycle = "yearly"
)

// BillingCycles перечисляет все допустимые периоды списания.
var BillingCycles = []BillingCycle{BillingWeekly, BillingMonthly, BillingYearly}

// Valid сообщает, входит ли значение в перечисление BillingCycles.
func (c BillingCycle) Valid() bool {
	for _, v := range BillingCycles {
		if c == v {
			return true
		}
	}
	return false
}

// Category - категория подписки, отображаемая на дашборде.
type Category string

// Допустимые категории подписок.
const (
	CategoryEntertainment Category = "Entertainment"
	CategoryProductivity  Category = "Productivity"
	CategoryHealthFitness Category = "Health & Fitness"
	CategoryEducation     Category = "Education"
	CategoryNewsMedia     Category = "News & Media"
	CategoryShopping      Category = "Shopping"
	CategoryOther         Category = "Other"
)

// Categories перечисляет категории в порядке их отображения.
var Categories = []Category{
	CategoryEntertainment,
	CategoryProductivity,
	CategoryHealthFitness,
	CategoryEducation,
	CategoryNewsMedia,
	CategoryShopping,
	CategoryOther,
}

// Valid сообщает, входит ли значение в перечисление Categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике, хранилище и в ответах API.
// Description равен nil, если описание не задано.
type Subscription struct {
	ID           string       `json:"id"`           // Идентификатор подписки (UUID)
	UserID       string       `json:"userId"`       // Владелец подписки
	Name         string       `json:"name"`         // Название сервиса
	Cost         float64      `json:"cost"`         // Стоимость за один период списания
	Currency     string       `json:"currency"`     // Валюта (единая для всего приложения)
	BillingCycle BillingCycle `json:"billingCycle"` // Период списания
	NextPayment  time.Time    `json:"nextPayment"`  // Дата следующего платежа
	Category     Category     `json:"category"`     // Категория
	Description  *string      `json:"description"`  // Необязательное описание
	IsActive     bool         `json:"isActive"`     // Признак активности
	CreatedAt    time.Time    `json:"createdAt"`    // Время создания записи
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Стоимость принимается и числом, и строкой ("9.99"), дата - строкой в формате 2006-01-02.
// Нулевая стоимость считается неуказанной.
type DummySubscription struct {
	Name         string      `json:"name" validate:"required"`
	Cost         Cost   `json:"cost" validate:"required,nonzero_cost"`
	BillingCycle string `json:"billingCycle" validate:"required,billing_cycle"`
	NextPayment  string `json:"nextPayment" validate:"required"`
	Category     string `json:"category" validate:"required,category"`
	Description  string `json:"description,omitempty"`
}

// Cost - стоимость в запросе: JSON-число или строка с числом.
// Пустая строка и строка из пробелов дают пустое значение, то есть стоимость не указана.
type Cost string

// UnmarshalJSON принимает число, строку или null.
func (c *Cost) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*c = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*c = ""
			return nil
		}
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("cost: %q is not a number", raw)
	}
	*c = Cost(raw)
	return nil
}

// Missing сообщает, что стоимость не указана: значение пустое или равно нулю.
func (c Cost) Missing() bool {
	raw := strings.TrimSpace(string(c))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseFloat(raw, 64)
	return err == nil && v == 0
}
