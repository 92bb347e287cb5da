package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
)

// StatsRepository defines the contract for dashboard analytics queries.
type StatsRepository interface {
	Dashboard(ctx context.Context, tenantID uuid.UUID, now time.Time) (*domain.DashboardStats, error)
	RevenueByMonth(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyRevenue, error)
	TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ClientRevenue, error)
	ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]domain.CategoryTotal, error)
}
