package port

import "context"

// InvoiceEmail carries everything needed to notify a client about an invoice.
// Amounts arrive pre-formatted as display strings; email rendering never
// recomputes totals.
type InvoiceEmail struct {
	ToEmail       string
	ToName        string
	InvoiceNumber string
	Currency      string
	AmountDue     string
	DueDate       string
	PayURL        string
}

// ReceiptEmail carries the details of a completed payment.
type ReceiptEmail struct {
	ToEmail       string
	ToName        string
	InvoiceNumber string
	Currency      string
	AmountPaid    string
}

// EmailSender defines the contract for sending transactional email.
type EmailSender interface {
	SendInvoiceEmail(ctx context.Context, email InvoiceEmail) error
	SendReceiptEmail(ctx context.Context, email ReceiptEmail) error
}
