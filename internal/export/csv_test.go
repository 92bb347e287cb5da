package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/export"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoiceWriter(t *testing.T) {
	clientID := uuid.New()
	sentAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	invoice := domain.Invoice{
		ID:       uuid.New(),
		ClientID: clientID,
		Number:   "INV-000042",
		Status:   domain.InvoiceStatusSent,
		Currency: "USD",
		IssueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		LineItems: domain.LineItems{
			{ID: uuid.New(), Description: "Design", Quantity: d("10"), Rate: d("70")},
			{ID: uuid.New(), Description: "Domain", Quantity: d("1"), Rate: d("200")},
		},
		Subtotal:       d("999.98"),
		DiscountAmount: d("50.00"),
		TaxAmount:      d("80.75"),
		Total:          d("1030.73"),
		AmountPaid:     d("30.73"),
		SentAt:         &sentAt,
		CreatedAt:      time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := export.NewInvoiceWriter(&buf, map[string]string{clientID.String(): "Acme, Inc."})
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteInvoices([]domain.Invoice{invoice}))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Number", records[0][0])
	row := records[1]
	assert.Equal(t, "INV-000042", row[0])
	assert.Equal(t, "sent", row[1])
	assert.Equal(t, "Acme, Inc.", row[2])
	assert.Equal(t, "2026-03-01", row[4])
	assert.Equal(t, "2", row[6])
	assert.Equal(t, "999.98", row[7])
	assert.Equal(t, "50.00", row[8])
	assert.Equal(t, "80.75", row[9])
	assert.Equal(t, "1030.73", row[10])
	assert.Equal(t, "30.73", row[11])
	assert.Equal(t, "1000.00", row[12])
	assert.Equal(t, sentAt.Format(time.RFC3339), row[13])
	assert.Equal(t, "", row[14])
}

func TestExpenseWriter(t *testing.T) {
	expense := domain.Expense{
		ID:          uuid.New(),
		Category:    domain.ExpenseCategorySoftware,
		Description: "Figma seats",
		Vendor:      "Figma",
		Currency:    "USD",
		Amount:      d("45"),
		IncurredOn:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := export.NewExpenseWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteExpenses([]domain.Expense{expense}))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"software", "Figma seats", "Figma", "USD", "45.00", "2026-02-01",
		"2026-02-01T12:00:00Z"}, records[1])
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"invoices", "invoices"},
		{"Acme, Inc. / Q1", "Acme_Inc_Q1"},
		{"  weird___name  ", "weird_name"},
		{"__", ""},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, export.SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestBuildFilename(t *testing.T) {
	got := export.BuildFilename("invoices export", "csv")
	assert.True(t, strings.HasPrefix(got, "invoices_export_"))
	assert.True(t, strings.HasSuffix(got, ".csv"))
}
