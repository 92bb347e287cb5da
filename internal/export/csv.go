// Package export renders invoices, expenses, and analytics as downloadable
// CSV and XLSX files. Monetary columns print the stored decimal values;
// nothing here recomputes totals.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/money"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// invoiceColumns defines the invoice CSV header row.
var invoiceColumns = []string{
	"Number",
	"Status",
	"Client",
	"Currency",
	"Issue Date",
	"Due Date",
	"Line Item Count",
	"Subtotal",
	"Discount",
	"Tax",
	"Total",
	"Amount Paid",
	"Balance Due",
	"Sent At",
	"Paid At",
	"Created At",
}

// expenseColumns defines the expense CSV header row.
var expenseColumns = []string{
	"Category",
	"Description",
	"Vendor",
	"Currency",
	"Amount",
	"Incurred On",
	"Created At",
}

// InvoiceWriter wraps csv.Writer for exporting invoices as CSV.
type InvoiceWriter struct {
	csv *csv.Writer
	// client names keyed by client ID string, resolved by the caller
	clientNames map[string]string
}

// NewInvoiceWriter creates an InvoiceWriter that writes CSV to w. clientNames
// maps client ID strings to display names.
func NewInvoiceWriter(w io.Writer, clientNames map[string]string) *InvoiceWriter {
	return &InvoiceWriter{csv: csv.NewWriter(w), clientNames: clientNames}
}

// WriteHeader writes the invoice header row.
func (w *InvoiceWriter) WriteHeader() error {
	return w.csv.Write(invoiceColumns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *InvoiceWriter) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(w.invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *InvoiceWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *InvoiceWriter) Error() error {
	return w.csv.Error()
}

func (w *InvoiceWriter) invoiceToRow(inv *domain.Invoice) []string {
	row := make([]string, len(invoiceColumns))
	row[0] = inv.Number
	row[1] = string(inv.Status)
	row[2] = w.clientNames[inv.ClientID.String()]
	row[3] = inv.Currency
	row[4] = inv.IssueDate.Format("2006-01-02")
	row[5] = inv.DueDate.Format("2006-01-02")
	row[6] = strconv.Itoa(len(inv.LineItems))
	row[7] = money.Format(inv.Subtotal)
	row[8] = money.Format(inv.DiscountAmount)
	row[9] = money.Format(inv.TaxAmount)
	row[10] = money.Format(inv.Total)
	row[11] = money.Format(inv.AmountPaid)
	row[12] = money.Format(inv.BalanceDue())
	row[13] = formatTime(inv.SentAt)
	row[14] = formatTime(inv.PaidAt)
	row[15] = inv.CreatedAt.Format(time.RFC3339)
	return row
}

// ExpenseWriter wraps csv.Writer for exporting expenses as CSV.
type ExpenseWriter struct {
	csv *csv.Writer
}

// NewExpenseWriter creates an ExpenseWriter that writes CSV to w.
func NewExpenseWriter(w io.Writer) *ExpenseWriter {
	return &ExpenseWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the expense header row.
func (w *ExpenseWriter) WriteHeader() error {
	return w.csv.Write(expenseColumns)
}

// WriteExpenses converts a batch of expenses to CSV rows and writes them.
func (w *ExpenseWriter) WriteExpenses(expenses []domain.Expense) error {
	for i := range expenses {
		e := &expenses[i]
		row := []string{
			string(e.Category),
			e.Description,
			e.Vendor,
			e.Currency,
			money.Format(e.Amount),
			e.IncurredOn.Format("2006-01-02"),
			e.CreatedAt.Format(time.RFC3339),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *ExpenseWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *ExpenseWriter) Error() error {
	return w.csv.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
