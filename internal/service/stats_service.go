package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

// StatsService defines the dashboard analytics contract.
type StatsService interface {
	Dashboard(ctx context.Context, tenantID uuid.UUID) (*domain.DashboardStats, error)
	RevenueByMonth(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyRevenue, error)
	TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ClientRevenue, error)
	ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]domain.CategoryTotal, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*domain.DashboardStats, error) {
	return s.statsRepo.Dashboard(ctx, tenantID, time.Now().UTC())
}

func (s *statsService) RevenueByMonth(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyRevenue, error) {
	if months <= 0 || months > 36 {
		months = 12
	}
	return s.statsRepo.RevenueByMonth(ctx, tenantID, months)
}

func (s *statsService) TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ClientRevenue, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.statsRepo.TopClients(ctx, tenantID, limit)
}

func (s *statsService) ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]domain.CategoryTotal, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}
	return s.statsRepo.ExpensesByCategory(ctx, tenantID, from, to)
}
