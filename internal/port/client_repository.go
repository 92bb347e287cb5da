package port

import (
	"context"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
)

// ClientRepository defines the contract for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, tenantID, clientID uuid.UUID) error
	CountInvoices(ctx context.Context, tenantID, clientID uuid.UUID) (int, error)
}
