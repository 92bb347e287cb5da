package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/billing"
	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/validator"
)

// EstimateInput is the DTO for creating or updating an estimate.
type EstimateInput struct {
	ClientID      uuid.UUID           `json:"client_id" binding:"required"`
	Currency      string              `json:"currency"`
	IssueDate     time.Time           `json:"issue_date" binding:"required"`
	ExpiryDate    time.Time           `json:"expiry_date" binding:"required"`
	LineItems     []LineItemInput     `json:"line_items" binding:"required"`
	DiscountType  domain.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	TaxRate       decimal.Decimal     `json:"tax_rate"`
	Notes         string              `json:"notes"`
}

// EstimatePDFRenderer renders a finished estimate to PDF bytes.
type EstimatePDFRenderer interface {
	RenderEstimate(estimate *domain.Estimate, client *domain.Client, tpl *domain.Template) ([]byte, error)
}

// EstimateService defines the estimate management contract.
type EstimateService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input EstimateInput) (*domain.Estimate, error)
	GetByID(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error)
	List(ctx context.Context, tenantID uuid.UUID, status domain.EstimateStatus, offset, limit int) ([]domain.Estimate, int, error)
	Update(ctx context.Context, tenantID, estimateID uuid.UUID, input EstimateInput) (*domain.Estimate, error)
	Delete(ctx context.Context, tenantID, estimateID uuid.UUID) error
	MarkSent(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error)
	Accept(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error)
	Decline(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error)
	ConvertToInvoice(ctx context.Context, tenantID, userID, estimateID uuid.UUID, dueInDays int) (*domain.Invoice, error)
	RenderPDF(ctx context.Context, tenantID, estimateID uuid.UUID) ([]byte, error)
}

type estimateService struct {
	estimateRepo port.EstimateRepository
	clientRepo   port.ClientRepository
	templateRepo port.TemplateRepository
	invoiceSvc   InvoiceService
	renderer     EstimatePDFRenderer
}

// NewEstimateService creates a new EstimateService implementation.
func NewEstimateService(
	estimateRepo port.EstimateRepository,
	clientRepo port.ClientRepository,
	templateRepo port.TemplateRepository,
	invoiceSvc InvoiceService,
	renderer EstimatePDFRenderer,
) EstimateService {
	return &estimateService{
		estimateRepo: estimateRepo,
		clientRepo:   clientRepo,
		templateRepo: templateRepo,
		invoiceSvc:   invoiceSvc,
		renderer:     renderer,
	}
}

// validateEstimate reuses the invoice form rules; expiry date plays the due
// date's role (it cannot precede the issue date).
func validateEstimate(input EstimateInput) (domain.LineItems, billing.Totals, error) {
	items := toLineItems(input.LineItems)

	fieldErrs := validator.ValidateInvoiceForm(validator.InvoiceForm{
		ClientID:      input.ClientID,
		IssueDate:     input.IssueDate,
		DueDate:       input.ExpiryDate,
		LineItems:     items,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		TaxRate:       input.TaxRate,
	})
	if len(fieldErrs) > 0 {
		return nil, billing.Totals{}, &ValidationError{Fields: fieldErrs}
	}

	totals := billing.Calculate(items, input.TaxRate, input.DiscountType, input.DiscountValue).Rounded()
	return items, totals, nil
}

func (s *estimateService) Create(ctx context.Context, tenantID, userID uuid.UUID, input EstimateInput) (*domain.Estimate, error) {
	items, totals, err := validateEstimate(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, tenantID, input.ClientID); err != nil {
		return nil, err
	}

	number, err := s.estimateRepo.NextNumber(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("reserving estimate number: %w", err)
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	estimate := &domain.Estimate{
		TenantID:       tenantID,
		ClientID:       input.ClientID,
		Number:         number,
		Status:         domain.EstimateStatusDraft,
		Currency:       currency,
		IssueDate:      input.IssueDate,
		ExpiryDate:     input.ExpiryDate,
		LineItems:      items,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		TaxRate:        input.TaxRate,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.TaxAmount,
		Total:          totals.Total,
		Notes:          input.Notes,
		CreatedBy:      userID,
	}

	if err := s.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, fmt.Errorf("creating estimate: %w", err)
	}
	log.Printf("estimateService.Create: estimate %s (%s) created for tenant %s", estimate.ID, number, tenantID)
	return estimate, nil
}

func (s *estimateService) GetByID(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error) {
	return s.estimateRepo.GetByID(ctx, tenantID, estimateID)
}

func (s *estimateService) List(ctx context.Context, tenantID uuid.UUID, status domain.EstimateStatus, offset, limit int) ([]domain.Estimate, int, error) {
	return s.estimateRepo.ListByTenant(ctx, tenantID, status, offset, limit)
}

func (s *estimateService) Update(ctx context.Context, tenantID, estimateID uuid.UUID, input EstimateInput) (*domain.Estimate, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	if estimate.Status != domain.EstimateStatusDraft && estimate.Status != domain.EstimateStatusSent {
		return nil, domain.ErrInvalidTransition
	}

	items, totals, err := validateEstimate(input)
	if err != nil {
		return nil, err
	}

	estimate.ClientID = input.ClientID
	if input.Currency != "" {
		estimate.Currency = input.Currency
	}
	estimate.IssueDate = input.IssueDate
	estimate.ExpiryDate = input.ExpiryDate
	estimate.LineItems = items
	estimate.DiscountType = input.DiscountType
	estimate.DiscountValue = input.DiscountValue
	estimate.TaxRate = input.TaxRate
	estimate.Subtotal = totals.Subtotal
	estimate.DiscountAmount = totals.DiscountAmount
	estimate.TaxAmount = totals.TaxAmount
	estimate.Total = totals.Total
	estimate.Notes = input.Notes

	if err := s.estimateRepo.Update(ctx, estimate); err != nil {
		return nil, err
	}
	return estimate, nil
}

func (s *estimateService) Delete(ctx context.Context, tenantID, estimateID uuid.UUID) error {
	estimate, err := s.estimateRepo.GetByID(ctx, tenantID, estimateID)
	if err != nil {
		return err
	}
	if estimate.Status == domain.EstimateStatusInvoiced {
		return domain.ErrInvalidTransition
	}
	return s.estimateRepo.Delete(ctx, tenantID, estimateID)
}

func (s *estimateService) MarkSent(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error) {
	return s.transition(ctx, tenantID, estimateID, domain.EstimateStatusSent,
		domain.EstimateStatusDraft, domain.EstimateStatusSent)
}

func (s *estimateService) Accept(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error) {
	return s.transition(ctx, tenantID, estimateID, domain.EstimateStatusAccepted,
		domain.EstimateStatusSent)
}

func (s *estimateService) Decline(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error) {
	return s.transition(ctx, tenantID, estimateID, domain.EstimateStatusDeclined,
		domain.EstimateStatusSent)
}

func (s *estimateService) transition(ctx context.Context, tenantID, estimateID uuid.UUID, to domain.EstimateStatus, from ...domain.EstimateStatus) (*domain.Estimate, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, f := range from {
		if estimate.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrInvalidTransition
	}
	if estimate.Status == to {
		return estimate, nil
	}

	estimate.Status = to
	if err := s.estimateRepo.Update(ctx, estimate); err != nil {
		return nil, err
	}
	log.Printf("estimateService: estimate %s moved to %s", estimate.Number, to)
	return estimate, nil
}

// ConvertToInvoice creates a draft invoice from an accepted estimate. Totals
// are recomputed from the line items rather than copied, so the invoice
// always reflects a fresh calculation.
func (s *estimateService) ConvertToInvoice(ctx context.Context, tenantID, userID, estimateID uuid.UUID, dueInDays int) (*domain.Invoice, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	if estimate.Status != domain.EstimateStatusAccepted {
		return nil, domain.ErrEstimateNotAccepted
	}

	if dueInDays <= 0 {
		dueInDays = 30
	}
	issueDate := time.Now().UTC().Truncate(24 * time.Hour)

	lineInputs := make([]LineItemInput, 0, len(estimate.LineItems))
	for _, li := range estimate.LineItems {
		lineInputs = append(lineInputs, LineItemInput{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
		})
	}

	invoice, err := s.invoiceSvc.Create(ctx, tenantID, userID, InvoiceInput{
		ClientID:      estimate.ClientID,
		Currency:      estimate.Currency,
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDate(0, 0, dueInDays),
		LineItems:     lineInputs,
		DiscountType:  estimate.DiscountType,
		DiscountValue: estimate.DiscountValue,
		TaxRate:       estimate.TaxRate,
		Notes:         estimate.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("converting estimate %s: %w", estimate.Number, err)
	}

	estimate.Status = domain.EstimateStatusInvoiced
	estimate.InvoiceID = &invoice.ID
	if err := s.estimateRepo.Update(ctx, estimate); err != nil {
		return nil, err
	}
	log.Printf("estimateService.ConvertToInvoice: estimate %s converted to invoice %s", estimate.Number, invoice.Number)
	return invoice, nil
}

// RenderPDF renders an estimate using the tenant's default template when one
// exists.
func (s *estimateService) RenderPDF(ctx context.Context, tenantID, estimateID uuid.UUID) ([]byte, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, tenantID, estimate.ClientID)
	if err != nil {
		return nil, err
	}

	tpl, err := s.templateRepo.GetDefault(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrTemplateNotFound) {
			log.Printf("estimateService.RenderPDF: default template lookup failed: %v", err)
		}
		tpl = nil
	}

	pdf, err := s.renderer.RenderEstimate(estimate, client, tpl)
	if err != nil {
		return nil, fmt.Errorf("rendering estimate PDF: %w", err)
	}
	return pdf, nil
}
