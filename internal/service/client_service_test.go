package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

func TestClientService_Create(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)
	tenantID := uuid.New()

	clientRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
		return c.TenantID == tenantID && c.Name == "Acme"
	})).Return(nil)

	client, err := svc.Create(context.Background(), tenantID, service.ClientInput{
		Name:  "Acme",
		Email: "billing@acme.test",
	})
	require.NoError(t, err)
	assert.Equal(t, tenantID, client.TenantID)
	clientRepo.AssertExpectations(t)
}

func TestClientService_DeleteWithInvoicesRefused(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)
	tenantID, clientID := uuid.New(), uuid.New()

	clientRepo.On("CountInvoices", mock.Anything, tenantID, clientID).Return(2, nil)

	err := svc.Delete(context.Background(), tenantID, clientID)
	assert.ErrorIs(t, err, domain.ErrClientHasInvoices)
	clientRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestClientService_DeleteWithoutInvoices(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)
	tenantID, clientID := uuid.New(), uuid.New()

	clientRepo.On("CountInvoices", mock.Anything, tenantID, clientID).Return(0, nil)
	clientRepo.On("Delete", mock.Anything, tenantID, clientID).Return(nil)

	err := svc.Delete(context.Background(), tenantID, clientID)
	require.NoError(t, err)
	clientRepo.AssertExpectations(t)
}

func TestClientService_UpdateNotFound(t *testing.T) {
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewClientService(clientRepo)
	tenantID, clientID := uuid.New(), uuid.New()

	clientRepo.On("GetByID", mock.Anything, tenantID, clientID).Return(nil, domain.ErrClientNotFound)

	_, err := svc.Update(context.Background(), tenantID, clientID, service.ClientInput{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}
