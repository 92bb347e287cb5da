package port

import (
	"context"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
)

// EstimateRepository defines the contract for estimate persistence.
type EstimateRepository interface {
	Create(ctx context.Context, estimate *domain.Estimate) error
	GetByID(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, status domain.EstimateStatus, offset, limit int) ([]domain.Estimate, int, error)
	Update(ctx context.Context, estimate *domain.Estimate) error
	Delete(ctx context.Context, tenantID, estimateID uuid.UUID) error
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
