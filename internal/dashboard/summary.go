// Package dashboard считает метрики дашборда и управляет локальным состоянием
// списка подписок и формы добавления.
package dashboard

import (
	"math"
	"sort"

	"github.com/magabrotheeeer/subsense/internal/models"
)

// MonthlyAmount приводит стоимость подписки к месячной сумме по её периоду.
func MonthlyAmount(sub models.Subscription) float64 {
	switch sub.BillingCycle {
	case models.BillingWeekly:
		return sub.Cost * 52 / 12
	case models.BillingYearly:
		return sub.Cost / 12
	default:
		return sub.Cost
	}
}

// Summarize считает метрики по переданному списку.
//
// MonthlyTotal складывает стоимости как есть, без учёта периода списания;
// приведённая к месяцу сумма возвращается отдельно в NormalizedMonthlyTotal.
// ActiveCount равен длине списка, признак IsActive не учитывается.
func Summarize(subs []models.Subscription) models.Summary {
	var naive, normalized float64
	totals := make(map[models.Category]*models.CategoryTotal)

	for _, sub := range subs {
		naive += sub.Cost
		normalized += MonthlyAmount(sub)

		ct, ok := totals[sub.Category]
		if !ok {
			ct = &models.CategoryTotal{Category: sub.Category}
			totals[sub.Category] = ct
		}
		ct.Total += sub.Cost
		ct.Count++
	}

	byCategory := make([]models.CategoryTotal, 0, len(totals))
	for _, c := range models.Categories {
		if ct, ok := totals[c]; ok {
			ct.Total = roundCents(ct.Total)
			byCategory = append(byCategory, *ct)
			delete(totals, c)
		}
	}
	// Категории вне перечисления (старые записи) идут в конце по алфавиту.
	rest := make([]models.CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		ct.Total = roundCents(ct.Total)
		rest = append(rest, *ct)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Category < rest[j].Category })
	byCategory = append(byCategory, rest...)

	return models.Summary{
		MonthlyTotal:           roundCents(naive),
		ActiveCount:            len(subs),
		YearlyProjection:       roundCents(naive * 12),
		NormalizedMonthlyTotal: roundCents(normalized),
		ByCategory:             byCategory,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
