package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/money"
)

// AnalyticsWorkbook bundles the data behind an analytics XLSX export.
type AnalyticsWorkbook struct {
	Revenue    []domain.MonthlyRevenue
	TopClients []domain.ClientRevenue
	Categories []domain.CategoryTotal
}

// WriteAnalyticsXLSX renders the analytics workbook: one sheet per dataset.
func WriteAnalyticsXLSX(data AnalyticsWorkbook) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeRevenueSheet(f, data.Revenue); err != nil {
		return nil, err
	}
	if err := writeClientsSheet(f, data.TopClients); err != nil {
		return nil, err
	}
	if err := writeCategoriesSheet(f, data.Categories); err != nil {
		return nil, err
	}

	// The default sheet is replaced by Revenue.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRevenueSheet(f *excelize.File, rows []domain.MonthlyRevenue) error {
	const sheet = "Revenue"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheet, err)
	}

	headers := []string{"Month", "Revenue", "Expenses", "Net"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		values := []interface{}{
			row.Month.Format("2006-01"),
			money.Format(row.Revenue),
			money.Format(row.Expenses),
			money.Format(row.Revenue.Sub(row.Expenses)),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeClientsSheet(f *excelize.File, rows []domain.ClientRevenue) error {
	const sheet = "Top Clients"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheet, err)
	}

	headers := []string{"Client", "Invoices", "Billed", "Collected"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		values := []interface{}{
			row.ClientName,
			row.InvoiceCount,
			money.Format(row.Billed),
			money.Format(row.Collected),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCategoriesSheet(f *excelize.File, rows []domain.CategoryTotal) error {
	const sheet = "Expenses by Category"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheet, err)
	}

	headers := []string{"Category", "Count", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		values := []interface{}{
			string(row.Category),
			row.Count,
			money.Format(row.Total),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
