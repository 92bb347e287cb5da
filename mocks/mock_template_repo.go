package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sleekinvoices/internal/domain"
)

// MockTemplateRepo is a mock implementation of port.TemplateRepository.
type MockTemplateRepo struct {
	mock.Mock
}

func (m *MockTemplateRepo) Create(ctx context.Context, tpl *domain.Template) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockTemplateRepo) GetByID(ctx context.Context, tenantID, templateID uuid.UUID) (*domain.Template, error) {
	args := m.Called(ctx, tenantID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateRepo) GetDefault(ctx context.Context, tenantID uuid.UUID) (*domain.Template, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Template, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Template), args.Error(1)
}

func (m *MockTemplateRepo) Update(ctx context.Context, tpl *domain.Template) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockTemplateRepo) SetDefault(ctx context.Context, tenantID, templateID uuid.UUID) error {
	args := m.Called(ctx, tenantID, templateID)
	return args.Error(0)
}

func (m *MockTemplateRepo) Delete(ctx context.Context, tenantID, templateID uuid.UUID) error {
	args := m.Called(ctx, tenantID, templateID)
	return args.Error(0)
}

func (m *MockTemplateRepo) CountInvoicesUsing(ctx context.Context, tenantID, templateID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID, templateID)
	return args.Int(0), args.Error(1)
}
