package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/subsense/internal/models"
)

func TestWriteXLSX(t *testing.T) {
	desc := "family plan"
	subs := []models.Subscription{
		{
			ID: "s1", Name: "Netflix", Cost: 9.99, Currency: "GBP",
			BillingCycle: models.BillingMonthly, Category: models.CategoryEntertainment,
			NextPayment: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
			Description: &desc,
		},
		{
			ID: "s2", Name: "Gym", Cost: 120, Currency: "GBP",
			BillingCycle: models.BillingYearly, Category: models.CategoryHealthFitness,
			NextPayment: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, subs))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "billing_cycle", rows[0][4])
	assert.Equal(t, []string{"s1", "Netflix", "9.99", "GBP", "monthly"}, rows[1][:5])
	assert.Equal(t, "2025-12-01", rows[1][6])
	assert.Equal(t, "family plan", rows[1][8])
	assert.Equal(t, "TRUE", rows[1][9])
	assert.Equal(t, "10", rows[2][5])
	assert.Equal(t, "Health & Fitness", rows[2][7])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
