package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sleekinvoices/internal/domain"
)

// MockRecurringRepo is a mock implementation of port.RecurringInvoiceRepository.
type MockRecurringRepo struct {
	mock.Mock
}

func (m *MockRecurringRepo) Create(ctx context.Context, rec *domain.RecurringInvoice) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecurringRepo) GetByID(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error) {
	args := m.Called(ctx, tenantID, recID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringInvoice), args.Error(1)
}

func (m *MockRecurringRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, activeOnly bool, offset, limit int) ([]domain.RecurringInvoice, int, error) {
	args := m.Called(ctx, tenantID, activeOnly, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RecurringInvoice), args.Int(1), args.Error(2)
}

func (m *MockRecurringRepo) Update(ctx context.Context, rec *domain.RecurringInvoice) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecurringRepo) Delete(ctx context.Context, tenantID, recID uuid.UUID) error {
	args := m.Called(ctx, tenantID, recID)
	return args.Error(0)
}

func (m *MockRecurringRepo) ClaimDue(ctx context.Context, asOf time.Time, limit int) ([]domain.RecurringInvoice, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringInvoice), args.Error(1)
}

func (m *MockRecurringRepo) MarkRun(ctx context.Context, recID uuid.UUID, lastRun, nextRun time.Time, deactivate bool) error {
	args := m.Called(ctx, recID, lastRun, nextRun, deactivate)
	return args.Error(0)
}
