package models

// CategoryTotal - сумма стоимостей подписок одной категории.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
	Count    int      `json:"count"`
}

// Summary содержит производные метрики дашборда.
//
// MonthlyTotal - «наивная» сумма стоимостей без приведения к месячному периоду,
// NormalizedMonthlyTotal - сумма, приведённая к месяцу с учётом BillingCycle.
type Summary struct {
	MonthlyTotal           float64         `json:"monthlyTotal"`
	ActiveCount            int             `json:"activeCount"`
	YearlyProjection       float64         `json:"yearlyProjection"`
	NormalizedMonthlyTotal float64         `json:"normalizedMonthlyTotal"`
	ByCategory             []CategoryTotal `json:"byCategory"`
}
