package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sleekinvoices/internal/domain"
)

// MockEstimateRepo is a mock implementation of port.EstimateRepository.
type MockEstimateRepo struct {
	mock.Mock
}

func (m *MockEstimateRepo) Create(ctx context.Context, estimate *domain.Estimate) error {
	args := m.Called(ctx, estimate)
	return args.Error(0)
}

func (m *MockEstimateRepo) GetByID(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error) {
	args := m.Called(ctx, tenantID, estimateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimate), args.Error(1)
}

func (m *MockEstimateRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, status domain.EstimateStatus, offset, limit int) ([]domain.Estimate, int, error) {
	args := m.Called(ctx, tenantID, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Estimate), args.Int(1), args.Error(2)
}

func (m *MockEstimateRepo) Update(ctx context.Context, estimate *domain.Estimate) error {
	args := m.Called(ctx, estimate)
	return args.Error(0)
}

func (m *MockEstimateRepo) Delete(ctx context.Context, tenantID, estimateID uuid.UUID) error {
	args := m.Called(ctx, tenantID, estimateID)
	return args.Error(0)
}

func (m *MockEstimateRepo) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}
