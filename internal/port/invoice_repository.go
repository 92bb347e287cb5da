package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
)

// InvoiceFilter narrows invoice list queries.
type InvoiceFilter struct {
	Status   domain.InvoiceStatus
	ClientID uuid.UUID
	Search   string
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error

	// NextNumber reserves the next per-tenant invoice number (e.g. INV-000042).
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)

	// ApplyPayment adds amount to amount_paid and transitions the invoice to
	// paid when the balance reaches zero, atomically.
	ApplyPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, amount decimal.Decimal, receivedAt time.Time) (*domain.Invoice, error)

	// MarkOverdue flips sent invoices past their due date to overdue and
	// returns how many rows changed.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
