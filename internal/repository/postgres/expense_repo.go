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

type expenseRepo struct {
	db *sqlx.DB
}

// NewExpenseRepo creates a new PostgreSQL-backed ExpenseRepository.
func NewExpenseRepo(db *sqlx.DB) port.ExpenseRepository {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	expense.ID = uuid.New()
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	query := `INSERT INTO expenses (
			id, tenant_id, category, description, amount, currency,
			incurred_on, vendor, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		expense.ID, expense.TenantID, expense.Category, expense.Description,
		expense.Amount, expense.Currency, expense.IncurredOn, expense.Vendor,
		expense.Notes, expense.CreatedBy, expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("expenseRepo.Create: %w", err)
	}
	return nil
}

func (r *expenseRepo) GetByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.GetContext(ctx, &expense,
		"SELECT * FROM expenses WHERE tenant_id = $1 AND id = $2", tenantID, expenseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("expenseRepo.GetByID: %w", err)
	}
	return &expense, nil
}

func (r *expenseRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, category domain.ExpenseCategory, offset, limit int) ([]domain.Expense, int, error) {
	where := "tenant_id = $1"
	args := []interface{}{tenantID}
	if category != "" {
		args = append(args, category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM expenses WHERE "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("expenseRepo.ListByTenant count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM expenses WHERE %s ORDER BY incurred_on DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var expenses []domain.Expense
	err = r.db.SelectContext(ctx, &expenses, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("expenseRepo.ListByTenant: %w", err)
	}
	return expenses, total, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *domain.Expense) error {
	expense.UpdatedAt = time.Now().UTC()
	query := `UPDATE expenses SET
			category = $1, description = $2, amount = $3, currency = $4,
			incurred_on = $5, vendor = $6, notes = $7, updated_at = $8
		WHERE tenant_id = $9 AND id = $10`
	result, err := r.db.ExecContext(ctx, query,
		expense.Category, expense.Description, expense.Amount, expense.Currency,
		expense.IncurredOn, expense.Vendor, expense.Notes, expense.UpdatedAt,
		expense.TenantID, expense.ID)
	if err != nil {
		return fmt.Errorf("expenseRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *expenseRepo) Delete(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE tenant_id = $1 AND id = $2", tenantID, expenseID)
	if err != nil {
		return fmt.Errorf("expenseRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
