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
	"sleekinvoices/internal/money"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

func acceptedEstimate(tenantID, clientID uuid.UUID) *domain.Estimate {
	now := time.Now().UTC()
	return &domain.Estimate{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ClientID:      clientID,
		Number:        "EST-000004",
		Status:        domain.EstimateStatusAccepted,
		Currency:      "USD",
		IssueDate:     now,
		ExpiryDate:    now.AddDate(0, 1, 0),
		LineItems: domain.LineItems{
			{ID: uuid.New(), Description: "Design hours", Quantity: dec("10"), Rate: dec("70")},
			{ID: uuid.New(), Description: "Domain setup", Quantity: dec("1"), Rate: dec("200")},
			{ID: uuid.New(), Description: "Stock photos", Quantity: dec("2"), Rate: dec("49.99")},
		},
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: dec("5"),
		TaxRate:       dec("8.5"),
		Subtotal:      dec("999.98"),
		Total:         dec("1030.73"),
	}
}

func TestEstimateService_CreateComputesTotals(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewEstimateService(estimateRepo, clientRepo, new(mocks.MockTemplateRepo), new(mocks.MockInvoiceService), new(mocks.MockPDFRenderer))

	tenantID, userID, clientID := uuid.New(), uuid.New(), uuid.New()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	clientRepo.On("GetByID", mock.Anything, tenantID, clientID).
		Return(&domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme"}, nil)
	estimateRepo.On("NextNumber", mock.Anything, tenantID).Return("EST-000001", nil)
	estimateRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Estimate")).Return(nil)

	estimate, err := svc.Create(context.Background(), tenantID, userID, service.EstimateInput{
		ClientID:      clientID,
		IssueDate:     issue,
		ExpiryDate:    issue.AddDate(0, 1, 0),
		LineItems:     lineItems(),
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: dec("5"),
		TaxRate:       dec("8.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusDraft, estimate.Status)
	assert.Equal(t, "999.98", money.Format(estimate.Subtotal))
	assert.Equal(t, "1030.73", money.Format(estimate.Total))
	assert.Equal(t, "USD", estimate.Currency)
}

func TestEstimateService_AcceptRequiresSent(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	svc := service.NewEstimateService(estimateRepo, new(mocks.MockClientRepo), new(mocks.MockTemplateRepo), new(mocks.MockInvoiceService), new(mocks.MockPDFRenderer))

	tenantID := uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	estimate.Status = domain.EstimateStatusDraft
	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)

	_, err := svc.Accept(context.Background(), tenantID, estimate.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	estimateRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEstimateService_MarkSentIsIdempotent(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	svc := service.NewEstimateService(estimateRepo, new(mocks.MockClientRepo), new(mocks.MockTemplateRepo), new(mocks.MockInvoiceService), new(mocks.MockPDFRenderer))

	tenantID := uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	estimate.Status = domain.EstimateStatusSent
	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)

	got, err := svc.MarkSent(context.Background(), tenantID, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusSent, got.Status)
	estimateRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEstimateService_DeclineFromSent(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	svc := service.NewEstimateService(estimateRepo, new(mocks.MockClientRepo), new(mocks.MockTemplateRepo), new(mocks.MockInvoiceService), new(mocks.MockPDFRenderer))

	tenantID := uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	estimate.Status = domain.EstimateStatusSent
	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)
	estimateRepo.On("Update", mock.Anything, estimate).Return(nil)

	got, err := svc.Decline(context.Background(), tenantID, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusDeclined, got.Status)
}

func TestEstimateService_ConvertRequiresAccepted(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	invoiceSvc := new(mocks.MockInvoiceService)
	svc := service.NewEstimateService(estimateRepo, new(mocks.MockClientRepo), new(mocks.MockTemplateRepo), invoiceSvc, new(mocks.MockPDFRenderer))

	tenantID := uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	estimate.Status = domain.EstimateStatusSent
	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)

	_, err := svc.ConvertToInvoice(context.Background(), tenantID, uuid.New(), estimate.ID, 30)
	assert.ErrorIs(t, err, domain.ErrEstimateNotAccepted)
	invoiceSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEstimateService_ConvertCreatesDraftInvoice(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	invoiceSvc := new(mocks.MockInvoiceService)
	svc := service.NewEstimateService(estimateRepo, new(mocks.MockClientRepo), new(mocks.MockTemplateRepo), invoiceSvc, new(mocks.MockPDFRenderer))

	tenantID, userID := uuid.New(), uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	invoice := draftInvoice(tenantID, estimate.ClientID)

	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)
	invoiceSvc.On("Create", mock.Anything, tenantID, userID, mock.MatchedBy(func(in service.InvoiceInput) bool {
		return in.ClientID == estimate.ClientID &&
			len(in.LineItems) == len(estimate.LineItems) &&
			in.DiscountValue.Equal(estimate.DiscountValue) &&
			in.TaxRate.Equal(estimate.TaxRate) &&
			in.DueDate.Sub(in.IssueDate) == 45*24*time.Hour
	})).Return(invoice, nil)
	estimateRepo.On("Update", mock.Anything, estimate).Return(nil)

	got, err := svc.ConvertToInvoice(context.Background(), tenantID, userID, estimate.ID, 45)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, got.ID)
	assert.Equal(t, domain.EstimateStatusInvoiced, estimate.Status)
	require.NotNil(t, estimate.InvoiceID)
	assert.Equal(t, invoice.ID, *estimate.InvoiceID)

	estimateRepo.AssertExpectations(t)
	invoiceSvc.AssertExpectations(t)
}

func TestEstimateService_ConvertDefaultsDueInDays(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	invoiceSvc := new(mocks.MockInvoiceService)
	svc := service.NewEstimateService(estimateRepo, new(mocks.MockClientRepo), new(mocks.MockTemplateRepo), invoiceSvc, new(mocks.MockPDFRenderer))

	tenantID, userID := uuid.New(), uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	invoice := draftInvoice(tenantID, estimate.ClientID)

	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)
	invoiceSvc.On("Create", mock.Anything, tenantID, userID, mock.MatchedBy(func(in service.InvoiceInput) bool {
		return in.DueDate.Sub(in.IssueDate) == 30*24*time.Hour
	})).Return(invoice, nil)
	estimateRepo.On("Update", mock.Anything, estimate).Return(nil)

	_, err := svc.ConvertToInvoice(context.Background(), tenantID, userID, estimate.ID, 0)
	require.NoError(t, err)
}

func TestEstimateService_RenderPDFUsesDefaultTemplate(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	clientRepo := new(mocks.MockClientRepo)
	templateRepo := new(mocks.MockTemplateRepo)
	renderer := new(mocks.MockPDFRenderer)
	svc := service.NewEstimateService(estimateRepo, clientRepo, templateRepo, new(mocks.MockInvoiceService), renderer)

	tenantID := uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	client := &domain.Client{ID: estimate.ClientID, TenantID: tenantID, Name: "Acme"}
	tpl := &domain.Template{ID: uuid.New(), TenantID: tenantID, IsDefault: true}

	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)
	clientRepo.On("GetByID", mock.Anything, tenantID, estimate.ClientID).Return(client, nil)
	templateRepo.On("GetDefault", mock.Anything, tenantID).Return(tpl, nil)
	renderer.On("RenderEstimate", estimate, client, tpl).Return([]byte("%PDF-1.4"), nil)

	pdfBytes, err := svc.RenderPDF(context.Background(), tenantID, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdfBytes)
	renderer.AssertExpectations(t)
}

func TestEstimateService_RenderPDFWithoutTemplate(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	clientRepo := new(mocks.MockClientRepo)
	templateRepo := new(mocks.MockTemplateRepo)
	renderer := new(mocks.MockPDFRenderer)
	svc := service.NewEstimateService(estimateRepo, clientRepo, templateRepo, new(mocks.MockInvoiceService), renderer)

	tenantID := uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	client := &domain.Client{ID: estimate.ClientID, TenantID: tenantID, Name: "Acme"}

	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)
	clientRepo.On("GetByID", mock.Anything, tenantID, estimate.ClientID).Return(client, nil)
	templateRepo.On("GetDefault", mock.Anything, tenantID).Return(nil, domain.ErrTemplateNotFound)
	renderer.On("RenderEstimate", estimate, client, (*domain.Template)(nil)).Return([]byte("%PDF-1.4"), nil)

	_, err := svc.RenderPDF(context.Background(), tenantID, estimate.ID)
	require.NoError(t, err)
	renderer.AssertExpectations(t)
}

func TestEstimateService_DeleteInvoicedRefused(t *testing.T) {
	estimateRepo := new(mocks.MockEstimateRepo)
	svc := service.NewEstimateService(estimateRepo, new(mocks.MockClientRepo), new(mocks.MockTemplateRepo), new(mocks.MockInvoiceService), new(mocks.MockPDFRenderer))

	tenantID := uuid.New()
	estimate := acceptedEstimate(tenantID, uuid.New())
	estimate.Status = domain.EstimateStatusInvoiced
	estimateRepo.On("GetByID", mock.Anything, tenantID, estimate.ID).Return(estimate, nil)

	err := svc.Delete(context.Background(), tenantID, estimate.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	estimateRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
