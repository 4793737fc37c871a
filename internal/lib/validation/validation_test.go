package validation

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subsense/internal/models"
)

func TestValidate(t *testing.T) {
	v := New()
	valid := models.DummySubscription{
		Name:         "Netflix",
		Cost:         models.Cost("9.99"),
		BillingCycle: "monthly",
		NextPayment:  "2025-12-01",
		Category:     "Health & Fitness",
	}

	tests := []struct {
		name    string
		modify  func(r *models.DummySubscription)
		wantTag string
		field   string
	}{
		{name: "valid", modify: func(*models.DummySubscription) {}},
		{name: "missing name", modify: func(r *models.DummySubscription) { r.Name = "" }, wantTag: "required", field: "name"},
		{name: "missing cost", modify: func(r *models.DummySubscription) { r.Cost = "" }, wantTag: "required", field: "cost"},
		{name: "zero cost", modify: func(r *models.DummySubscription) { r.Cost = "0" }, wantTag: "nonzero_cost", field: "cost"},
		{name: "zero cost with fraction", modify: func(r *models.DummySubscription) { r.Cost = "0.00" }, wantTag: "nonzero_cost", field: "cost"},
		{name: "bad cycle", modify: func(r *models.DummySubscription) { r.BillingCycle = "daily" }, wantTag: "billing_cycle", field: "billingCycle"},
		{name: "bad category", modify: func(r *models.DummySubscription) { r.Category = "Health" }, wantTag: "category", field: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			err := v.Struct(req)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantTag, verrs[0].ActualTag())
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}
