package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

// ClientInput is the DTO for creating or updating a client.
type ClientInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// ClientService defines the client management contract.
type ClientService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input ClientInput) (*domain.Client, error)
	GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, tenantID, clientID uuid.UUID, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, tenantID, clientID uuid.UUID) error
}

type clientService struct {
	clientRepo port.ClientRepository
}

// NewClientService creates a new ClientService implementation.
func NewClientService(clientRepo port.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) Create(ctx context.Context, tenantID uuid.UUID, input ClientInput) (*domain.Client, error) {
	client := &domain.Client{
		TenantID: tenantID,
		Name:     input.Name,
		Email:    input.Email,
		Company:  input.Company,
		Phone:    input.Phone,
		Address:  input.Address,
		Notes:    input.Notes,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	log.Printf("clientService.Create: client %s created for tenant %s", client.ID, tenantID)
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, tenantID, clientID)
}

func (s *clientService) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error) {
	return s.clientRepo.ListByTenant(ctx, tenantID, search, offset, limit)
}

func (s *clientService) Update(ctx context.Context, tenantID, clientID uuid.UUID, input ClientInput) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.Email = input.Email
	client.Company = input.Company
	client.Phone = input.Phone
	client.Address = input.Address
	client.Notes = input.Notes

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete refuses to remove a client that still has invoices so historical
// records keep a valid reference.
func (s *clientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	count, err := s.clientRepo.CountInvoices(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrClientHasInvoices
	}
	log.Printf("clientService.Delete: deleting client %s for tenant %s", clientID, tenantID)
	return s.clientRepo.Delete(ctx, tenantID, clientID)
}
