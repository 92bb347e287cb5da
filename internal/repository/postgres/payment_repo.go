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

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	payment.ID = uuid.New()
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `INSERT INTO payments (
			id, tenant_id, invoice_id, method, status, amount, currency,
			gateway_ref, failure_note, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.TenantID, payment.InvoiceID, payment.Method,
		payment.Status, payment.Amount, payment.Currency,
		payment.GatewayRef, payment.FailureNote, payment.ReceivedAt,
		payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment,
		"SELECT * FROM payments WHERE tenant_id = $1 AND id = $2", tenantID, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &payment, nil
}

// GetByGatewayRef is unscoped by tenant because webhook callbacks carry only
// the gateway's own reference.
func (r *paymentRepo) GetByGatewayRef(ctx context.Context, gatewayRef string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment,
		"SELECT * FROM payments WHERE gateway_ref = $1", gatewayRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByGatewayRef: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE tenant_id = $1 AND invoice_id = $2 ORDER BY created_at DESC",
		tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByInvoice: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Payment, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM payments WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("paymentRepo.ListByTenant count: %w", err)
	}

	var payments []domain.Payment
	err = r.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("paymentRepo.ListByTenant: %w", err)
	}
	return payments, total, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	query := `UPDATE payments SET
			status = $1, amount = $2, gateway_ref = $3, failure_note = $4,
			received_at = $5, updated_at = $6
		WHERE tenant_id = $7 AND id = $8`
	result, err := r.db.ExecContext(ctx, query,
		payment.Status, payment.Amount, payment.GatewayRef, payment.FailureNote,
		payment.ReceivedAt, payment.UpdatedAt, payment.TenantID, payment.ID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
