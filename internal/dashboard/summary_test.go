package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/subsense/internal/models"
)

func sub(cost float64, cycle models.BillingCycle, category models.Category) models.Subscription {
	return models.Subscription{Cost: cost, BillingCycle: cycle, Category: category}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		subs       []models.Subscription
		monthly    float64
		yearly     float64
		normalized float64
		count      int
	}{
		{
			name:  "empty",
			subs:  nil,
			count: 0,
		},
		{
			name: "face value totals",
			subs: []models.Subscription{
				sub(10.99, models.BillingMonthly, models.CategoryEntertainment),
				sub(11.99, models.BillingMonthly, models.CategoryProductivity),
				sub(26.99, models.BillingMonthly, models.CategoryHealthFitness),
			},
			monthly:    49.97,
			yearly:     599.64,
			normalized: 49.97,
			count:      3,
		},
		{
			name: "mixed cycles are not normalized in the naive total",
			subs: []models.Subscription{
				sub(120, models.BillingYearly, models.CategoryOther),
				sub(3, models.BillingWeekly, models.CategoryOther),
				sub(10, models.BillingMonthly, models.CategoryOther),
			},
			monthly:    133,
			yearly:     1596,
			normalized: 33,
			count:      3,
		},
		{
			name: "inactive subscriptions are still counted",
			subs: []models.Subscription{
				{Cost: 5, BillingCycle: models.BillingMonthly, IsActive: false},
			},
			monthly:    5,
			yearly:     60,
			normalized: 5,
			count:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.subs)
			assert.InDelta(t, tt.monthly, got.MonthlyTotal, 1e-9)
			assert.InDelta(t, tt.yearly, got.YearlyProjection, 1e-9)
			assert.InDelta(t, tt.normalized, got.NormalizedMonthlyTotal, 1e-9)
			assert.Equal(t, tt.count, got.ActiveCount)
			assert.NotNil(t, got.ByCategory)
		})
	}
}

func TestSummarize_ByCategory(t *testing.T) {
	got := Summarize([]models.Subscription{
		sub(1, models.BillingMonthly, models.CategoryOther),
		sub(2, models.BillingMonthly, models.CategoryEntertainment),
		sub(3, models.BillingMonthly, models.CategoryEntertainment),
		sub(4, models.BillingMonthly, "Legacy"),
	})

	assert.Equal(t, []models.CategoryTotal{
		{Category: models.CategoryEntertainment, Total: 5, Count: 2},
		{Category: models.CategoryOther, Total: 1, Count: 1},
		{Category: "Legacy", Total: 4, Count: 1},
	}, got.ByCategory)
}

func TestMonthlyAmount(t *testing.T) {
	assert.InDelta(t, 52.0, MonthlyAmount(sub(12, models.BillingWeekly, "")), 1e-9)
	assert.InDelta(t, 12.0, MonthlyAmount(sub(12, models.BillingMonthly, "")), 1e-9)
	assert.InDelta(t, 1.0, MonthlyAmount(sub(12, models.BillingYearly, "")), 1e-9)
}
