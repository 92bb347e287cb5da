// Package pdf renders invoices and estimates to PDF. The renderer is a pure
// presentation layer: it prints the stored totals exactly as formatted and
// never recomputes them from line items.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/money"
)

// defaultAccent is the indigo used when a template has no accent color.
var defaultAccent = [3]int{79, 70, 229}

// Renderer renders documents with gofpdf.
type Renderer struct{}

// NewRenderer creates a new PDF renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderInvoice renders an invoice to PDF bytes. tpl may be nil.
func (r *Renderer) RenderInvoice(invoice *domain.Invoice, client *domain.Client, tpl *domain.Template) ([]byte, error) {
	doc := newDoc(tpl)

	doc.header("INVOICE", invoice.Number)
	doc.parties(client)
	doc.dates("Issue Date", invoice.IssueDate.Format("Jan 2, 2006"),
		"Due Date", invoice.DueDate.Format("Jan 2, 2006"))
	doc.lineItems(invoice.LineItems)
	doc.totals(invoice.Currency,
		money.Format(invoice.Subtotal), money.Format(invoice.DiscountAmount),
		money.Format(invoice.TaxAmount), money.Format(invoice.Total))
	if invoice.AmountPaid.IsPositive() {
		doc.row("Amount Paid", invoice.Currency+" "+money.Format(invoice.AmountPaid), false)
		doc.row("Balance Due", invoice.Currency+" "+money.Format(invoice.BalanceDue()), true)
	}
	doc.notes(invoice.Notes)
	doc.footer(tpl)

	return doc.bytes()
}

// RenderEstimate renders an estimate to PDF bytes. tpl may be nil.
func (r *Renderer) RenderEstimate(estimate *domain.Estimate, client *domain.Client, tpl *domain.Template) ([]byte, error) {
	doc := newDoc(tpl)

	doc.header("ESTIMATE", estimate.Number)
	doc.parties(client)
	doc.dates("Issue Date", estimate.IssueDate.Format("Jan 2, 2006"),
		"Valid Until", estimate.ExpiryDate.Format("Jan 2, 2006"))
	doc.lineItems(estimate.LineItems)
	doc.totals(estimate.Currency,
		money.Format(estimate.Subtotal), money.Format(estimate.DiscountAmount),
		money.Format(estimate.TaxAmount), money.Format(estimate.Total))
	doc.notes(estimate.Notes)
	doc.footer(tpl)

	return doc.bytes()
}

type document struct {
	pdf    *gofpdf.Fpdf
	accent [3]int
}

func newDoc(tpl *domain.Template) *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	accent := defaultAccent
	if tpl != nil && tpl.AccentColor != "" {
		if c, ok := parseHexColor(tpl.AccentColor); ok {
			accent = c
		}
	}
	return &document{pdf: pdf, accent: accent}
}

func (d *document) header(kind, number string) {
	d.pdf.SetFont("Helvetica", "B", 24)
	d.pdf.SetTextColor(d.accent[0], d.accent[1], d.accent[2])
	d.pdf.CellFormat(0, 12, kind, "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.SetTextColor(60, 60, 60)
	d.pdf.CellFormat(0, 6, number, "", 1, "L", false, 0, "")
	d.pdf.Ln(4)
}

func (d *document) parties(client *domain.Client) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.CellFormat(0, 5, "BILL TO", "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.CellFormat(0, 6, client.Name, "", 1, "L", false, 0, "")
	if client.Company != "" {
		d.pdf.CellFormat(0, 5, client.Company, "", 1, "L", false, 0, "")
	}
	if client.Address != "" {
		d.pdf.MultiCell(0, 5, client.Address, "", "L", false)
	}
	if client.Email != "" {
		d.pdf.CellFormat(0, 5, client.Email, "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(4)
}

func (d *document) dates(label1, val1, label2, val2 string) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.CellFormat(45, 5, label1, "", 0, "L", false, 0, "")
	d.pdf.CellFormat(45, 5, label2, "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.CellFormat(45, 6, val1, "", 0, "L", false, 0, "")
	d.pdf.CellFormat(45, 6, val2, "", 1, "L", false, 0, "")
	d.pdf.Ln(6)
}

func (d *document) lineItems(items domain.LineItems) {
	d.pdf.SetFillColor(d.accent[0], d.accent[1], d.accent[2])
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.CellFormat(95, 8, "Description", "", 0, "L", true, 0, "")
	d.pdf.CellFormat(25, 8, "Qty", "", 0, "R", true, 0, "")
	d.pdf.CellFormat(30, 8, "Rate", "", 0, "R", true, 0, "")
	d.pdf.CellFormat(30, 8, "Amount", "", 1, "R", true, 0, "")

	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.SetFont("Helvetica", "", 10)
	fill := false
	for _, item := range items {
		d.pdf.SetFillColor(245, 245, 247)
		d.pdf.CellFormat(95, 7, item.Description, "", 0, "L", fill, 0, "")
		d.pdf.CellFormat(25, 7, item.Quantity.String(), "", 0, "R", fill, 0, "")
		d.pdf.CellFormat(30, 7, money.Format(item.Rate), "", 0, "R", fill, 0, "")
		d.pdf.CellFormat(30, 7, money.Format(item.Amount()), "", 1, "R", fill, 0, "")
		fill = !fill
	}
	d.pdf.Ln(4)
}

func (d *document) totals(currency, subtotal, discount, tax, total string) {
	d.row("Subtotal", currency+" "+subtotal, false)
	if discount != "0.00" {
		d.row("Discount", "-"+currency+" "+discount, false)
	}
	d.row("Tax", currency+" "+tax, false)
	d.row("Total", currency+" "+total, true)
}

func (d *document) row(label, value string, emphasize bool) {
	if emphasize {
		d.pdf.SetFont("Helvetica", "B", 12)
		d.pdf.SetTextColor(d.accent[0], d.accent[1], d.accent[2])
	} else {
		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.SetTextColor(60, 60, 60)
	}
	d.pdf.CellFormat(120, 7, "", "", 0, "L", false, 0, "")
	d.pdf.CellFormat(30, 7, label, "", 0, "R", false, 0, "")
	d.pdf.CellFormat(30, 7, value, "", 1, "R", false, 0, "")
}

func (d *document) notes(notes string) {
	if notes == "" {
		return
	}
	d.pdf.Ln(6)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.CellFormat(0, 5, "NOTES", "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(60, 60, 60)
	d.pdf.MultiCell(0, 5, notes, "", "L", false)
}

func (d *document) footer(tpl *domain.Template) {
	footerNote := "Thank you for your business!"
	if tpl != nil && tpl.FooterNote != "" {
		footerNote = tpl.FooterNote
	}
	d.pdf.SetY(-30)
	d.pdf.SetFont("Helvetica", "I", 9)
	d.pdf.SetTextColor(150, 150, 150)
	d.pdf.CellFormat(0, 5, footerNote, "", 1, "C", false, 0, "")
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// parseHexColor parses "#4F46E5" or "4F46E5" into RGB components.
func parseHexColor(s string) ([3]int, bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return [3]int{}, false
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseInt(s[i*2:i*2+2], 16, 32)
		if err != nil {
			return [3]int{}, false
		}
		rgb[i] = int(v)
	}
	return rgb, true
}
