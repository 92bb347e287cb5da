package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	invoice.ID = uuid.New()
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	query := `INSERT INTO invoices (
			id, tenant_id, client_id, template_id, number, status, currency,
			issue_date, due_date, line_items, discount_type, discount_value, tax_rate,
			subtotal, discount_amount, tax_amount, total, amount_paid,
			notes, sent_at, paid_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID, invoice.TenantID, invoice.ClientID, invoice.TemplateID,
		invoice.Number, invoice.Status, invoice.Currency,
		invoice.IssueDate, invoice.DueDate, invoice.LineItems,
		invoice.DiscountType, invoice.DiscountValue, invoice.TaxRate,
		invoice.Subtotal, invoice.DiscountAmount, invoice.TaxAmount, invoice.Total,
		invoice.AmountPaid, invoice.Notes, invoice.SentAt, invoice.PaidAt,
		invoice.CreatedBy, invoice.CreatedAt, invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice,
		"SELECT * FROM invoices WHERE tenant_id = $1 AND id = $2", tenantID, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	where := "tenant_id = $1"
	args := []interface{}{tenantID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ClientID != uuid.Nil {
		args = append(args, filter.ClientID)
		where += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (number ILIKE $%d OR notes ILIKE $%d)", len(args), len(args))
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoices WHERE "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByTenant count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM invoices WHERE %s ORDER BY issue_date DESC, number DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByTenant: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *domain.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()
	query := `UPDATE invoices SET
			client_id = $1, template_id = $2, status = $3, currency = $4,
			issue_date = $5, due_date = $6, line_items = $7,
			discount_type = $8, discount_value = $9, tax_rate = $10,
			subtotal = $11, discount_amount = $12, tax_amount = $13, total = $14,
			amount_paid = $15, notes = $16, sent_at = $17, paid_at = $18, updated_at = $19
		WHERE tenant_id = $20 AND id = $21`
	result, err := r.db.ExecContext(ctx, query,
		invoice.ClientID, invoice.TemplateID, invoice.Status, invoice.Currency,
		invoice.IssueDate, invoice.DueDate, invoice.LineItems,
		invoice.DiscountType, invoice.DiscountValue, invoice.TaxRate,
		invoice.Subtotal, invoice.DiscountAmount, invoice.TaxAmount, invoice.Total,
		invoice.AmountPaid, invoice.Notes, invoice.SentAt, invoice.PaidAt,
		invoice.UpdatedAt, invoice.TenantID, invoice.ID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM invoices WHERE tenant_id = $1 AND id = $2", tenantID, invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// NextNumber reserves the next per-tenant invoice number via an upsert on
// the counters table, so concurrent creates never collide.
func (r *invoiceRepo) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		INSERT INTO invoice_counters (tenant_id, kind, counter)
		VALUES ($1, 'invoice', 1)
		ON CONFLICT (tenant_id, kind) DO UPDATE SET counter = invoice_counters.counter + 1
		RETURNING counter`, tenantID)
	if err != nil {
		return "", fmt.Errorf("invoiceRepo.NextNumber: %w", err)
	}
	return fmt.Sprintf("INV-%06d", n), nil
}

func (r *invoiceRepo) ApplyPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, amount decimal.Decimal, receivedAt time.Time) (*domain.Invoice, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ApplyPayment begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var invoice domain.Invoice
	err = tx.GetContext(ctx, &invoice,
		"SELECT * FROM invoices WHERE tenant_id = $1 AND id = $2 FOR UPDATE", tenantID, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.ApplyPayment select: %w", err)
	}

	invoice.AmountPaid = invoice.AmountPaid.Add(amount)
	invoice.UpdatedAt = time.Now().UTC()
	if invoice.BalanceDue().LessThanOrEqual(decimal.Zero) {
		invoice.Status = domain.InvoiceStatusPaid
		paidAt := receivedAt.UTC()
		invoice.PaidAt = &paidAt
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE invoices SET amount_paid = $1, status = $2, paid_at = $3, updated_at = $4
		WHERE tenant_id = $5 AND id = $6`,
		invoice.AmountPaid, invoice.Status, invoice.PaidAt, invoice.UpdatedAt,
		tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ApplyPayment update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ApplyPayment commit: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, updated_at = $2 WHERE status = $3 AND due_date < $4`,
		domain.InvoiceStatusOverdue, time.Now().UTC(), domain.InvoiceStatusSent, asOf)
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.MarkOverdue: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
