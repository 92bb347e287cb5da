package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Dashboard(ctx context.Context, tenantID uuid.UUID, now time.Time) (*domain.DashboardStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var stats domain.DashboardStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COALESCE((SELECT SUM(amount_paid) FROM invoices WHERE tenant_id = $1), 0) AS total_revenue,
			COALESCE((SELECT SUM(total - amount_paid) FROM invoices
				WHERE tenant_id = $1 AND status IN ('sent', 'overdue')), 0) AS outstanding,
			(SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND status = 'overdue') AS overdue_count,
			(SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND status = 'draft') AS draft_count,
			COALESCE((SELECT SUM(amount) FROM payments
				WHERE tenant_id = $1 AND status = 'completed' AND received_at >= $2), 0) AS paid_this_month,
			COALESCE((SELECT SUM(amount) FROM expenses
				WHERE tenant_id = $1 AND incurred_on >= $2), 0) AS expenses_this_month,
			(SELECT COUNT(*) FROM clients WHERE tenant_id = $1) AS active_clients`,
		tenantID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.Dashboard: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) RevenueByMonth(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyRevenue, error) {
	var rows []domain.MonthlyRevenue
	err := r.db.SelectContext(ctx, &rows, `
		WITH series AS (
			SELECT date_trunc('month', now()) - (n || ' months')::interval AS month
			FROM generate_series(0, $2 - 1) AS n
		)
		SELECT
			s.month,
			COALESCE((SELECT SUM(p.amount) FROM payments p
				WHERE p.tenant_id = $1 AND p.status = 'completed'
				AND date_trunc('month', p.received_at) = s.month), 0) AS revenue,
			COALESCE((SELECT SUM(e.amount) FROM expenses e
				WHERE e.tenant_id = $1
				AND date_trunc('month', e.incurred_on) = s.month), 0) AS expenses
		FROM series s
		ORDER BY s.month ASC`,
		tenantID, months)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.RevenueByMonth: %w", err)
	}
	return rows, nil
}

func (r *statsRepo) TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ClientRevenue, error) {
	var rows []domain.ClientRevenue
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			c.id AS client_id,
			c.name AS client_name,
			COUNT(i.id) AS invoice_count,
			COALESCE(SUM(i.total), 0) AS billed,
			COALESCE(SUM(i.amount_paid), 0) AS collected
		FROM clients c
		JOIN invoices i ON i.client_id = c.id AND i.tenant_id = c.tenant_id
		WHERE c.tenant_id = $1 AND i.status != 'cancelled'
		GROUP BY c.id, c.name
		ORDER BY billed DESC
		LIMIT $2`,
		tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.TopClients: %w", err)
	}
	return rows, nil
}

func (r *statsRepo) ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]domain.CategoryTotal, error) {
	var rows []domain.CategoryTotal
	err := r.db.SelectContext(ctx, &rows, `
		SELECT category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count
		FROM expenses
		WHERE tenant_id = $1 AND incurred_on >= $2 AND incurred_on <= $3
		GROUP BY category
		ORDER BY total DESC`,
		tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.ExpensesByCategory: %w", err)
	}
	return rows, nil
}
