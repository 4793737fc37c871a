// Package export формирует XLSX-выгрузку подписок.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/subsense/internal/dashboard"
	"github.com/magabrotheeeer/subsense/internal/models"
)

// ContentType - MIME-тип XLSX-файла.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Header - заголовок листа подписок.
var Header = []any{
	"id",
	"name",
	"cost",
	"currency",
	"billing_cycle",
	"monthly_amount",
	"next_payment",
	"category",
	"description",
	"is_active",
	"created_at",
}

// WriteXLSX пишет книгу с одним листом: строка заголовка и по строке на подписку.
func WriteXLSX(w io.Writer, subs []models.Subscription) error {
	const op = "export.WriteXLSX"

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := Header
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s: header: %w", op, err)
	}

	for i, sub := range subs {
		description := ""
		if sub.Description != nil {
			description = *sub.Description
		}
		row := []any{
			sub.ID,
			sub.Name,
			sub.Cost,
			sub.Currency,
			string(sub.BillingCycle),
			dashboard.MonthlyAmount(sub),
			sub.NextPayment.Format("2006-01-02"),
			string(sub.Category),
			description,
			sub.IsActive,
			sub.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s: row %d: %w", op, i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
