package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/money"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

type invoiceDeps struct {
	invoiceRepo  *mocks.MockInvoiceRepo
	clientRepo   *mocks.MockClientRepo
	paymentRepo  *mocks.MockPaymentRepo
	templateRepo *mocks.MockTemplateRepo
	email        *mocks.MockEmailSender
	renderer     *mocks.MockPDFRenderer
}

func newInvoiceService() (service.InvoiceService, *invoiceDeps) {
	deps := &invoiceDeps{
		invoiceRepo:  new(mocks.MockInvoiceRepo),
		clientRepo:   new(mocks.MockClientRepo),
		paymentRepo:  new(mocks.MockPaymentRepo),
		templateRepo: new(mocks.MockTemplateRepo),
		email:        new(mocks.MockEmailSender),
		renderer:     new(mocks.MockPDFRenderer),
	}
	svc := service.NewInvoiceService(
		deps.invoiceRepo,
		deps.clientRepo,
		deps.paymentRepo,
		deps.templateRepo,
		deps.email,
		deps.renderer,
		"https://app.example.test",
	)
	return svc, deps
}

func validInput(clientID uuid.UUID) service.InvoiceInput {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return service.InvoiceInput{
		ClientID:      clientID,
		Currency:      "USD",
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 30),
		LineItems:     lineItems(),
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: dec("5"),
		TaxRate:       dec("8.5"),
	}
}

func TestInvoiceService_CreateComputesTotals(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, userID, clientID := uuid.New(), uuid.New(), uuid.New()

	deps.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).
		Return(&domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme"}, nil)
	deps.invoiceRepo.On("NextNumber", mock.Anything, tenantID).Return("INV-000001", nil)
	deps.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	invoice, err := svc.Create(context.Background(), tenantID, userID, validInput(clientID))
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", invoice.Number)
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, "999.98", money.Format(invoice.Subtotal))
	assert.Equal(t, "50.00", money.Format(invoice.DiscountAmount))
	assert.Equal(t, "80.75", money.Format(invoice.TaxAmount))
	assert.Equal(t, "1030.73", money.Format(invoice.Total))
	assert.True(t, invoice.AmountPaid.IsZero())

	deps.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_CreateRejectsInvalidForm(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, userID := uuid.New(), uuid.New()

	input := validInput(uuid.New())
	input.LineItems = nil
	input.TaxRate = dec("101")

	_, err := svc.Create(context.Background(), tenantID, userID, input)

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "line_items")
	assert.Contains(t, verr.Fields, "tax_rate")
	deps.invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateOnlyDraft(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	sent := draftInvoice(tenantID, clientID)
	sent.Status = domain.InvoiceStatusSent
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, sent.ID).Return(sent, nil)

	_, err := svc.Update(context.Background(), tenantID, sent.ID, validInput(clientID))
	assert.ErrorIs(t, err, domain.ErrInvoiceNotEditable)
	deps.invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateRepricesFromScratch(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)
	deps.invoiceRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	updated, err := svc.Update(context.Background(), tenantID, invoice.ID, validInput(clientID))
	require.NoError(t, err)
	assert.Equal(t, "1030.73", money.Format(updated.Total))
}

func TestInvoiceService_DeleteOnlyDraft(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	paid := draftInvoice(tenantID, clientID)
	paid.Status = domain.InvoiceStatusPaid
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, paid.ID).Return(paid, nil)

	err := svc.Delete(context.Background(), tenantID, paid.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotEditable)
	deps.invoiceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_SendTransitionsDraft(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	client := &domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme", Email: "billing@acme.test"}

	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)
	deps.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).Return(client, nil)
	deps.email.On("SendInvoiceEmail", mock.Anything, mock.MatchedBy(func(e port.InvoiceEmail) bool {
		return e.ToEmail == "billing@acme.test" && e.InvoiceNumber == invoice.Number && e.AmountDue == "500.00"
	})).Return(nil)
	deps.invoiceRepo.On("Update", mock.Anything, invoice).Return(nil)

	sent, err := svc.Send(context.Background(), tenantID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	deps.email.AssertExpectations(t)
	deps.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_SendResendDoesNotRetransition(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	invoice.Status = domain.InvoiceStatusSent
	client := &domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme", Email: "billing@acme.test"}

	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)
	deps.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).Return(client, nil)
	deps.email.On("SendInvoiceEmail", mock.Anything, mock.AnythingOfType("port.InvoiceEmail")).Return(nil)

	_, err := svc.Send(context.Background(), tenantID, invoice.ID)
	require.NoError(t, err)
	deps.invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_SendRequiresClientEmail(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)
	deps.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).
		Return(&domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme"}, nil)

	_, err := svc.Send(context.Background(), tenantID, invoice.ID)

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "client.email")
	deps.email.AssertNotCalled(t, "SendInvoiceEmail", mock.Anything, mock.Anything)
}

func TestInvoiceService_SendRejectsCancelled(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	invoice.Status = domain.InvoiceStatusCancelled
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)

	_, err := svc.Send(context.Background(), tenantID, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestInvoiceService_CancelPaidRefused(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	invoice.Status = domain.InvoiceStatusPaid
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)

	_, err := svc.Cancel(context.Background(), tenantID, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadyPaid)
}

func TestInvoiceService_CancelIsIdempotent(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	invoice.Status = domain.InvoiceStatusCancelled
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)

	got, err := svc.Cancel(context.Background(), tenantID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusCancelled, got.Status)
	deps.invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordManualPayment(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()
	receivedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	invoice := draftInvoice(tenantID, clientID)
	invoice.Status = domain.InvoiceStatusSent

	settled := *invoice
	settled.AmountPaid = invoice.Total
	settled.Status = domain.InvoiceStatusPaid

	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)
	deps.paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Method == domain.PaymentMethodManual &&
			p.Status == domain.PaymentStatusCompleted &&
			p.Amount.Equal(invoice.Total) &&
			p.InvoiceID == invoice.ID
	})).Return(nil)
	deps.invoiceRepo.On("ApplyPayment", mock.Anything, tenantID, invoice.ID, invoice.Total, receivedAt).
		Return(&settled, nil)

	got, err := svc.RecordManualPayment(context.Background(), tenantID, invoice.ID, invoice.Total, receivedAt)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
	assert.True(t, got.BalanceDue().IsZero())

	deps.paymentRepo.AssertExpectations(t)
	deps.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_RecordManualPaymentRejectsNonPositive(t *testing.T) {
	svc, deps := newInvoiceService()

	_, err := svc.RecordManualPayment(context.Background(), uuid.New(), uuid.New(), decimal.Zero, time.Now())

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")
	deps.invoiceRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordManualPaymentRejectsDraft(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)

	_, err := svc.RecordManualPayment(context.Background(), tenantID, invoice.ID, dec("100"), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	deps.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_RenderPDFFallsBackToDefaultTemplate(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	client := &domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme"}
	tpl := &domain.Template{ID: uuid.New(), TenantID: tenantID, Name: "Default", IsDefault: true}

	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)
	deps.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).Return(client, nil)
	deps.templateRepo.On("GetDefault", mock.Anything, tenantID).Return(tpl, nil)
	deps.renderer.On("RenderInvoice", invoice, client, tpl).Return([]byte("%PDF-1.4"), nil)

	pdf, err := svc.RenderPDF(context.Background(), tenantID, invoice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	deps.renderer.AssertExpectations(t)
}

func TestInvoiceService_RenderPDFWithoutAnyTemplate(t *testing.T) {
	svc, deps := newInvoiceService()
	tenantID, clientID := uuid.New(), uuid.New()

	invoice := draftInvoice(tenantID, clientID)
	client := &domain.Client{ID: clientID, TenantID: tenantID, Name: "Acme"}

	deps.invoiceRepo.On("GetByID", mock.Anything, tenantID, invoice.ID).Return(invoice, nil)
	deps.clientRepo.On("GetByID", mock.Anything, tenantID, clientID).Return(client, nil)
	deps.templateRepo.On("GetDefault", mock.Anything, tenantID).Return(nil, domain.ErrTemplateNotFound)
	deps.renderer.On("RenderInvoice", invoice, client, (*domain.Template)(nil)).Return([]byte("%PDF-1.4"), nil)

	_, err := svc.RenderPDF(context.Background(), tenantID, invoice.ID)
	require.NoError(t, err)
}

func TestInvoiceService_SweepOverdue(t *testing.T) {
	svc, deps := newInvoiceService()

	deps.invoiceRepo.On("MarkOverdue", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(3), nil)

	n, err := svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestInvoiceService_SweepOverdueError(t *testing.T) {
	svc, deps := newInvoiceService()

	deps.invoiceRepo.On("MarkOverdue", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(0), errors.New("db down"))

	_, err := svc.SweepOverdue(context.Background())
	assert.Error(t, err)
}
