package service

import (
	"context"
	"fmt"

	"inventory-backend/internal/shared/apperr"

	"github.com/xuri/excelize/v2"
)

// ExportMonthlySales renders the monthly report as an xlsx workbook with a
// summary sheet, the top-10 products, category performance and the daily
// trend. Returns the file bytes and a suggested filename.
func (s *analyticsService) ExportMonthlySales(ctx context.Context, year, month int) ([]byte, string, error) {
	report, err := s.MonthlySales(ctx, year, month)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", apperr.Fatal(err)
	}

	setRow := func(sheet, cell string, values ...interface{}) {
		_ = f.SetSheetRow(sheet, cell, &values)
	}

	setRow(summarySheet, "A1", fmt.Sprintf("Monthly Sales Report %04d-%02d (%s)", year, month, report.CurrencyCode))
	setRow(summarySheet, "A3", "Sales Revenue", report.Summary.SalesRevenue.StringFixed(2))
	setRow(summarySheet, "A4", "Purchases Cost", report.Summary.PurchasesCost.StringFixed(2))
	setRow(summarySheet, "A5", "COGS", report.Summary.COGS.StringFixed(2))
	setRow(summarySheet, "A6", "Gross Profit", report.Summary.GrossProfit.StringFixed(2))
	setRow(summarySheet, "A7", "Sales Count", report.Summary.SalesCount)
	_ = f.SetCellStyle(summarySheet, "A1", "A1", header)

	const topSheet = "Top Products"
	if _, err := f.NewSheet(topSheet); err != nil {
		return nil, "", apperr.Fatal(err)
	}
	setRow(topSheet, "A1", "Code", "Name", "Quantity Sold", "Revenue")
	_ = f.SetCellStyle(topSheet, "A1", "D1", header)
	for i, tp := range report.TopProducts {
		setRow(topSheet, fmt.Sprintf("A%d", i+2),
			tp.Code, tp.Name, tp.QuantitySold, tp.Revenue.StringFixed(2))
	}

	const categorySheet = "Categories"
	if _, err := f.NewSheet(categorySheet); err != nil {
		return nil, "", apperr.Fatal(err)
	}
	setRow(categorySheet, "A1", "Category", "Quantity Sold", "Revenue")
	_ = f.SetCellStyle(categorySheet, "A1", "C1", header)
	for i, cp := range report.Categories {
		setRow(categorySheet, fmt.Sprintf("A%d", i+2),
			cp.CategoryName, cp.QuantitySold, cp.Revenue.StringFixed(2))
	}

	const trendSheet = "Daily Trend"
	if _, err := f.NewSheet(trendSheet); err != nil {
		return nil, "", apperr.Fatal(err)
	}
	setRow(trendSheet, "A1", "Day", "Revenue", "Sales Count")
	_ = f.SetCellStyle(trendSheet, "A1", "C1", header)
	for i, p := range report.DailyTrend {
		setRow(trendSheet, fmt.Sprintf("A%d", i+2),
			p.Day.Format("2006-01-02"), p.Revenue.StringFixed(2), p.SalesCount)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apperr.Fatal(err)
	}

	filename := fmt.Sprintf("monthly-sales-%04d-%02d.xlsx", year, month)
	return buf.Bytes(), filename, nil
}
