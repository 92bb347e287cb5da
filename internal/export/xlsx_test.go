package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/export"
)

func TestWriteAnalyticsXLSX(t *testing.T) {
	data := export.AnalyticsWorkbook{
		Revenue: []domain.MonthlyRevenue{
			{
				Month:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				Revenue:  d("12000"),
				Expenses: d("3500.50"),
			},
			{
				Month:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
				Revenue:  d("9800.25"),
				Expenses: d("4100"),
			},
		},
		TopClients: []domain.ClientRevenue{
			{
				ClientID:     uuid.New(),
				ClientName:   "Acme",
				InvoiceCount: 7,
				Billed:       d("18000"),
				Collected:    d("15500"),
			},
		},
		Categories: []domain.CategoryTotal{
			{Category: domain.ExpenseCategorySoftware, Count: 12, Total: d("540")},
			{Category: domain.ExpenseCategoryTravel, Count: 3, Total: d("2200.75")},
		},
	}

	out, err := export.WriteAnalyticsXLSX(data)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.ElementsMatch(t, []string{"Revenue", "Top Clients", "Expenses by Category"}, f.GetSheetList())

	rows, err := f.GetRows("Revenue")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Month", "Revenue", "Expenses", "Net"}, rows[0])
	assert.Equal(t, []string{"2026-01", "12000.00", "3500.50", "8499.50"}, rows[1])
	assert.Equal(t, []string{"2026-02", "9800.25", "4100.00", "5700.25"}, rows[2])

	clients, err := f.GetRows("Top Clients")
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, []string{"Acme", "7", "18000.00", "15500.00"}, clients[1])

	categories, err := f.GetRows("Expenses by Category")
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, []string{"software", "12", "540.00"}, categories[1])
}

func TestWriteAnalyticsXLSXEmpty(t *testing.T) {
	out, err := export.WriteAnalyticsXLSX(export.AnalyticsWorkbook{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Revenue")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
