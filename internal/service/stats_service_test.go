package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

func TestStatsService_RevenueByMonthClampsRange(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(statsRepo)
	tenantID := uuid.New()

	statsRepo.On("RevenueByMonth", mock.Anything, tenantID, 12).
		Return([]domain.MonthlyRevenue{}, nil).Times(3)
	statsRepo.On("RevenueByMonth", mock.Anything, tenantID, 6).
		Return([]domain.MonthlyRevenue{}, nil).Once()

	for _, months := range []int{0, -1, 37} {
		_, err := svc.RevenueByMonth(context.Background(), tenantID, months)
		require.NoError(t, err)
	}
	_, err := svc.RevenueByMonth(context.Background(), tenantID, 6)
	require.NoError(t, err)

	statsRepo.AssertExpectations(t)
}

func TestStatsService_TopClientsClampsLimit(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(statsRepo)
	tenantID := uuid.New()

	statsRepo.On("TopClients", mock.Anything, tenantID, 10).
		Return([]domain.ClientRevenue{}, nil).Twice()

	for _, limit := range []int{0, 51} {
		_, err := svc.TopClients(context.Background(), tenantID, limit)
		require.NoError(t, err)
	}
	statsRepo.AssertExpectations(t)
}

func TestStatsService_ExpensesByCategoryDefaultsRange(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(statsRepo)
	tenantID := uuid.New()

	statsRepo.On("ExpensesByCategory", mock.Anything, tenantID,
		mock.MatchedBy(func(from time.Time) bool { return !from.IsZero() }),
		mock.MatchedBy(func(to time.Time) bool { return !to.IsZero() }),
	).Return([]domain.CategoryTotal{}, nil)

	_, err := svc.ExpensesByCategory(context.Background(), tenantID, time.Time{}, time.Time{})
	require.NoError(t, err)
	statsRepo.AssertExpectations(t)
}

func TestStatsService_Dashboard(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(statsRepo)
	tenantID := uuid.New()

	stats := &domain.DashboardStats{}
	statsRepo.On("Dashboard", mock.Anything, tenantID, mock.AnythingOfType("time.Time")).
		Return(stats, nil)

	got, err := svc.Dashboard(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Same(t, stats, got)
}
