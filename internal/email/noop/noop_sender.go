package noop

import (
	"context"
	"log"

	"sleekinvoices/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvoiceEmail(_ context.Context, email port.InvoiceEmail) error {
	log.Printf("[NOOP EMAIL] Invoice %s for %s (%s): %s %s due %s, pay at %s",
		email.InvoiceNumber, email.ToName, email.ToEmail,
		email.Currency, email.AmountDue, email.DueDate, email.PayURL)
	return nil
}

func (s *noopSender) SendReceiptEmail(_ context.Context, email port.ReceiptEmail) error {
	log.Printf("[NOOP EMAIL] Receipt for invoice %s to %s (%s): %s %s",
		email.InvoiceNumber, email.ToName, email.ToEmail,
		email.Currency, email.AmountPaid)
	return nil
}
