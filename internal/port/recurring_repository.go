package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
)

// RecurringInvoiceRepository defines the contract for recurring invoice
// template persistence.
type RecurringInvoiceRepository interface {
	Create(ctx context.Context, rec *domain.RecurringInvoice) error
	GetByID(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, activeOnly bool, offset, limit int) ([]domain.RecurringInvoice, int, error)
	Update(ctx context.Context, rec *domain.RecurringInvoice) error
	Delete(ctx context.Context, tenantID, recID uuid.UUID) error

	// ClaimDue atomically claims up to limit active templates whose
	// next_run_at has passed, across all tenants, so concurrent workers
	// never generate the same invoice twice. Returned rows report the
	// original due time in NextRunAt regardless of how the implementation
	// marks the claim, so callers can advance schedules without drift.
	ClaimDue(ctx context.Context, asOf time.Time, limit int) ([]domain.RecurringInvoice, error)

	// MarkRun records a completed generation and schedules the next one.
	MarkRun(ctx context.Context, recID uuid.UUID, lastRun, nextRun time.Time, deactivate bool) error
}
