package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

type recurringRepo struct {
	db *sqlx.DB
}

// NewRecurringRepo creates a new PostgreSQL-backed RecurringInvoiceRepository.
func NewRecurringRepo(db *sqlx.DB) port.RecurringInvoiceRepository {
	return &recurringRepo{db: db}
}

func (r *recurringRepo) Create(ctx context.Context, rec *domain.RecurringInvoice) error {
	rec.ID = uuid.New()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO recurring_invoices (
			id, tenant_id, client_id, template_id, currency, frequency, next_run_at,
			end_date, line_items, discount_type, discount_value, tax_rate, due_in_days,
			notes, auto_send, is_active, last_run_at, invoice_count, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.TenantID, rec.ClientID, rec.TemplateID, rec.Currency,
		rec.Frequency, rec.NextRunAt, rec.EndDate, rec.LineItems,
		rec.DiscountType, rec.DiscountValue, rec.TaxRate, rec.DueInDays,
		rec.Notes, rec.AutoSend, rec.IsActive, rec.LastRunAt, rec.InvoiceCount,
		rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("recurringRepo.Create: %w", err)
	}
	return nil
}

func (r *recurringRepo) GetByID(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error) {
	var rec domain.RecurringInvoice
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM recurring_invoices WHERE tenant_id = $1 AND id = $2", tenantID, recID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, fmt.Errorf("recurringRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *recurringRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, activeOnly bool, offset, limit int) ([]domain.RecurringInvoice, int, error) {
	where := "tenant_id = $1"
	args := []interface{}{tenantID}
	if activeOnly {
		where += " AND is_active = true"
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM recurring_invoices WHERE "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("recurringRepo.ListByTenant count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM recurring_invoices WHERE %s ORDER BY next_run_at ASC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var recs []domain.RecurringInvoice
	err = r.db.SelectContext(ctx, &recs, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("recurringRepo.ListByTenant: %w", err)
	}
	return recs, total, nil
}

func (r *recurringRepo) Update(ctx context.Context, rec *domain.RecurringInvoice) error {
	rec.UpdatedAt = time.Now().UTC()
	query := `UPDATE recurring_invoices SET
			client_id = $1, template_id = $2, currency = $3, frequency = $4,
			next_run_at = $5, end_date = $6, line_items = $7,
			discount_type = $8, discount_value = $9, tax_rate = $10, due_in_days = $11,
			notes = $12, auto_send = $13, is_active = $14, updated_at = $15
		WHERE tenant_id = $16 AND id = $17`
	result, err := r.db.ExecContext(ctx, query,
		rec.ClientID, rec.TemplateID, rec.Currency, rec.Frequency,
		rec.NextRunAt, rec.EndDate, rec.LineItems,
		rec.DiscountType, rec.DiscountValue, rec.TaxRate, rec.DueInDays,
		rec.Notes, rec.AutoSend, rec.IsActive, rec.UpdatedAt,
		rec.TenantID, rec.ID)
	if err != nil {
		return fmt.Errorf("recurringRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

func (r *recurringRepo) Delete(ctx context.Context, tenantID, recID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM recurring_invoices WHERE tenant_id = $1 AND id = $2", tenantID, recID)
	if err != nil {
		return fmt.Errorf("recurringRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

// ClaimDue pushes claimed templates one poll interval into the future so a
// second worker polling concurrently skips them. The returned rows carry the
// original next_run_at, not the bumped one: the service advances the schedule
// from the due time, and the bump must never leak into that calculation.
func (r *recurringRepo) ClaimDue(ctx context.Context, asOf time.Time, limit int) ([]domain.RecurringInvoice, error) {
	var recs []domain.RecurringInvoice
	err := r.db.SelectContext(ctx, &recs, `
		WITH due AS (
			SELECT id, next_run_at FROM recurring_invoices
			WHERE is_active = true AND next_run_at <= $1
			ORDER BY next_run_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE recurring_invoices r
		SET next_run_at = r.next_run_at + INTERVAL '5 minutes'
		FROM due
		WHERE r.id = due.id
		RETURNING r.id, r.tenant_id, r.client_id, r.template_id, r.currency, r.frequency,
			due.next_run_at AS next_run_at, r.end_date, r.line_items, r.discount_type,
			r.discount_value, r.tax_rate, r.due_in_days, r.notes, r.auto_send, r.is_active,
			r.last_run_at, r.invoice_count, r.created_by, r.created_at, r.updated_at`,
		asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("recurringRepo.ClaimDue: %w", err)
	}
	return recs, nil
}

func (r *recurringRepo) MarkRun(ctx context.Context, recID uuid.UUID, lastRun, nextRun time.Time, deactivate bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE recurring_invoices
		SET last_run_at = $1, next_run_at = $2, invoice_count = invoice_count + 1,
			is_active = is_active AND NOT $3, updated_at = $4
		WHERE id = $5`,
		lastRun, nextRun, deactivate, time.Now().UTC(), recID)
	if err != nil {
		return fmt.Errorf("recurringRepo.MarkRun: %w", err)
	}
	return nil
}
