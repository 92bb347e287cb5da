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

type estimateRepo struct {
	db *sqlx.DB
}

// NewEstimateRepo creates a new PostgreSQL-backed EstimateRepository.
func NewEstimateRepo(db *sqlx.DB) port.EstimateRepository {
	return &estimateRepo{db: db}
}

func (r *estimateRepo) Create(ctx context.Context, estimate *domain.Estimate) error {
	estimate.ID = uuid.New()
	now := time.Now().UTC()
	estimate.CreatedAt = now
	estimate.UpdatedAt = now

	query := `INSERT INTO estimates (
			id, tenant_id, client_id, number, status, currency, issue_date, expiry_date,
			line_items, discount_type, discount_value, tax_rate,
			subtotal, discount_amount, tax_amount, total,
			notes, invoice_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.db.ExecContext(ctx, query,
		estimate.ID, estimate.TenantID, estimate.ClientID, estimate.Number,
		estimate.Status, estimate.Currency, estimate.IssueDate, estimate.ExpiryDate,
		estimate.LineItems, estimate.DiscountType, estimate.DiscountValue, estimate.TaxRate,
		estimate.Subtotal, estimate.DiscountAmount, estimate.TaxAmount, estimate.Total,
		estimate.Notes, estimate.InvoiceID, estimate.CreatedBy,
		estimate.CreatedAt, estimate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("estimateRepo.Create: %w", err)
	}
	return nil
}

func (r *estimateRepo) GetByID(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error) {
	var estimate domain.Estimate
	err := r.db.GetContext(ctx, &estimate,
		"SELECT * FROM estimates WHERE tenant_id = $1 AND id = $2", tenantID, estimateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEstimateNotFound
		}
		return nil, fmt.Errorf("estimateRepo.GetByID: %w", err)
	}
	return &estimate, nil
}

func (r *estimateRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, status domain.EstimateStatus, offset, limit int) ([]domain.Estimate, int, error) {
	where := "tenant_id = $1"
	args := []interface{}{tenantID}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM estimates WHERE "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("estimateRepo.ListByTenant count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM estimates WHERE %s ORDER BY issue_date DESC, number DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var estimates []domain.Estimate
	err = r.db.SelectContext(ctx, &estimates, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("estimateRepo.ListByTenant: %w", err)
	}
	return estimates, total, nil
}

func (r *estimateRepo) Update(ctx context.Context, estimate *domain.Estimate) error {
	estimate.UpdatedAt = time.Now().UTC()
	query := `UPDATE estimates SET
			client_id = $1, status = $2, currency = $3, issue_date = $4, expiry_date = $5,
			line_items = $6, discount_type = $7, discount_value = $8, tax_rate = $9,
			subtotal = $10, discount_amount = $11, tax_amount = $12, total = $13,
			notes = $14, invoice_id = $15, updated_at = $16
		WHERE tenant_id = $17 AND id = $18`
	result, err := r.db.ExecContext(ctx, query,
		estimate.ClientID, estimate.Status, estimate.Currency,
		estimate.IssueDate, estimate.ExpiryDate, estimate.LineItems,
		estimate.DiscountType, estimate.DiscountValue, estimate.TaxRate,
		estimate.Subtotal, estimate.DiscountAmount, estimate.TaxAmount, estimate.Total,
		estimate.Notes, estimate.InvoiceID, estimate.UpdatedAt,
		estimate.TenantID, estimate.ID)
	if err != nil {
		return fmt.Errorf("estimateRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEstimateNotFound
	}
	return nil
}

func (r *estimateRepo) Delete(ctx context.Context, tenantID, estimateID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM estimates WHERE tenant_id = $1 AND id = $2", tenantID, estimateID)
	if err != nil {
		return fmt.Errorf("estimateRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEstimateNotFound
	}
	return nil
}

// NextNumber reserves the next per-tenant estimate number. Estimates share the
// counters table with invoices, keyed by kind, so the two sequences stay
// independent.
func (r *estimateRepo) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		INSERT INTO invoice_counters (tenant_id, kind, counter)
		VALUES ($1, 'estimate', 1)
		ON CONFLICT (tenant_id, kind) DO UPDATE SET counter = invoice_counters.counter + 1
		RETURNING counter`, tenantID)
	if err != nil {
		return "", fmt.Errorf("estimateRepo.NextNumber: %w", err)
	}
	return fmt.Sprintf("EST-%06d", n), nil
}
