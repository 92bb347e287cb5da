package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sleekinvoices/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Dashboard(ctx context.Context, tenantID uuid.UUID, now time.Time) (*domain.DashboardStats, error) {
	args := m.Called(ctx, tenantID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *MockStatsRepo) RevenueByMonth(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyRevenue, error) {
	args := m.Called(ctx, tenantID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyRevenue), args.Error(1)
}

func (m *MockStatsRepo) TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ClientRevenue, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientRevenue), args.Error(1)
}

func (m *MockStatsRepo) ExpensesByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}
