package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/validator"
)

// RecurringInput is the DTO for creating or updating a recurring invoice
// template.
type RecurringInput struct {
	ClientID      uuid.UUID                 `json:"client_id" binding:"required"`
	TemplateID    *uuid.UUID                `json:"template_id"`
	Currency      string                    `json:"currency"`
	Frequency     domain.RecurringFrequency `json:"frequency" binding:"required"`
	StartDate     time.Time                 `json:"start_date" binding:"required"`
	EndDate       *time.Time                `json:"end_date"`
	LineItems     []LineItemInput           `json:"line_items" binding:"required"`
	DiscountType  domain.DiscountType       `json:"discount_type"`
	DiscountValue decimal.Decimal           `json:"discount_value"`
	TaxRate       decimal.Decimal           `json:"tax_rate"`
	DueInDays     int                       `json:"due_in_days"`
	Notes         string                    `json:"notes"`
	AutoSend      bool                      `json:"auto_send"`
}

// RecurringService defines the recurring invoice template contract.
type RecurringService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input RecurringInput) (*domain.RecurringInvoice, error)
	GetByID(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error)
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool, offset, limit int) ([]domain.RecurringInvoice, int, error)
	Update(ctx context.Context, tenantID, recID uuid.UUID, input RecurringInput) (*domain.RecurringInvoice, error)
	Delete(ctx context.Context, tenantID, recID uuid.UUID) error
	Pause(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error)
	Resume(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error)
	// GenerateDue claims templates due as of now, generates one invoice per
	// template, and advances each schedule. Returns how many were generated.
	GenerateDue(ctx context.Context, limit int) (int, error)
}

type recurringService struct {
	recurringRepo port.RecurringInvoiceRepository
	invoiceSvc    InvoiceService
}

// NewRecurringService creates a new RecurringService implementation.
func NewRecurringService(
	recurringRepo port.RecurringInvoiceRepository,
	invoiceSvc InvoiceService,
) RecurringService {
	return &recurringService{
		recurringRepo: recurringRepo,
		invoiceSvc:    invoiceSvc,
	}
}

func validateRecurring(input RecurringInput) (domain.LineItems, error) {
	items := toLineItems(input.LineItems)

	// Issue and due dates are synthesized at generation time, so only the
	// item and rate rules apply here.
	fieldErrs := validator.ValidateInvoiceForm(validator.InvoiceForm{
		ClientID:      input.ClientID,
		LineItems:     items,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		TaxRate:       input.TaxRate,
	})
	if !domain.ValidFrequencies[input.Frequency] {
		fieldErrs["frequency"] = "frequency must be weekly, biweekly, monthly, quarterly, or yearly"
	}
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}
	return items, nil
}

// NextRun advances a schedule by one period of the given frequency.
func NextRun(after time.Time, freq domain.RecurringFrequency) time.Time {
	switch freq {
	case domain.FrequencyWeekly:
		return after.AddDate(0, 0, 7)
	case domain.FrequencyBiweekly:
		return after.AddDate(0, 0, 14)
	case domain.FrequencyQuarterly:
		return after.AddDate(0, 3, 0)
	case domain.FrequencyYearly:
		return after.AddDate(1, 0, 0)
	default:
		return after.AddDate(0, 1, 0)
	}
}

func (s *recurringService) Create(ctx context.Context, tenantID, userID uuid.UUID, input RecurringInput) (*domain.RecurringInvoice, error) {
	items, err := validateRecurring(input)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	dueInDays := input.DueInDays
	if dueInDays <= 0 {
		dueInDays = 30
	}

	rec := &domain.RecurringInvoice{
		TenantID:      tenantID,
		ClientID:      input.ClientID,
		TemplateID:    input.TemplateID,
		Currency:      currency,
		Frequency:     input.Frequency,
		NextRunAt:     input.StartDate.UTC(),
		EndDate:       input.EndDate,
		LineItems:     items,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		TaxRate:       input.TaxRate,
		DueInDays:     dueInDays,
		Notes:         input.Notes,
		AutoSend:      input.AutoSend,
		IsActive:      true,
		CreatedBy:     userID,
	}
	if err := s.recurringRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating recurring invoice: %w", err)
	}
	log.Printf("recurringService.Create: schedule %s (%s) created for tenant %s", rec.ID, rec.Frequency, tenantID)
	return rec, nil
}

func (s *recurringService) GetByID(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error) {
	return s.recurringRepo.GetByID(ctx, tenantID, recID)
}

func (s *recurringService) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool, offset, limit int) ([]domain.RecurringInvoice, int, error) {
	return s.recurringRepo.ListByTenant(ctx, tenantID, activeOnly, offset, limit)
}

func (s *recurringService) Update(ctx context.Context, tenantID, recID uuid.UUID, input RecurringInput) (*domain.RecurringInvoice, error) {
	rec, err := s.recurringRepo.GetByID(ctx, tenantID, recID)
	if err != nil {
		return nil, err
	}

	items, err := validateRecurring(input)
	if err != nil {
		return nil, err
	}

	rec.ClientID = input.ClientID
	rec.TemplateID = input.TemplateID
	if input.Currency != "" {
		rec.Currency = input.Currency
	}
	rec.Frequency = input.Frequency
	rec.EndDate = input.EndDate
	rec.LineItems = items
	rec.DiscountType = input.DiscountType
	rec.DiscountValue = input.DiscountValue
	rec.TaxRate = input.TaxRate
	if input.DueInDays > 0 {
		rec.DueInDays = input.DueInDays
	}
	rec.Notes = input.Notes
	rec.AutoSend = input.AutoSend

	if err := s.recurringRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recurringService) Delete(ctx context.Context, tenantID, recID uuid.UUID) error {
	return s.recurringRepo.Delete(ctx, tenantID, recID)
}

func (s *recurringService) Pause(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error) {
	return s.setActive(ctx, tenantID, recID, false)
}

func (s *recurringService) Resume(ctx context.Context, tenantID, recID uuid.UUID) (*domain.RecurringInvoice, error) {
	return s.setActive(ctx, tenantID, recID, true)
}

func (s *recurringService) setActive(ctx context.Context, tenantID, recID uuid.UUID, active bool) (*domain.RecurringInvoice, error) {
	rec, err := s.recurringRepo.GetByID(ctx, tenantID, recID)
	if err != nil {
		return nil, err
	}
	if rec.IsActive == active {
		return rec, nil
	}
	rec.IsActive = active
	// A resumed schedule whose next run slipped into the past would fire
	// immediately; push it forward instead.
	if active && rec.NextRunAt.Before(time.Now().UTC()) {
		rec.NextRunAt = NextRun(time.Now().UTC(), rec.Frequency)
	}
	if err := s.recurringRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recurringService) GenerateDue(ctx context.Context, limit int) (int, error) {
	now := time.Now().UTC()
	due, err := s.recurringRepo.ClaimDue(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("claiming due schedules: %w", err)
	}

	generated := 0
	for i := range due {
		rec := due[i]
		if err := s.generateOne(ctx, &rec, now); err != nil {
			log.Printf("recurringService.GenerateDue: schedule %s failed: %v", rec.ID, err)
			continue
		}
		generated++
	}
	return generated, nil
}

func (s *recurringService) generateOne(ctx context.Context, rec *domain.RecurringInvoice, now time.Time) error {
	lineInputs := make([]LineItemInput, 0, len(rec.LineItems))
	for _, li := range rec.LineItems {
		lineInputs = append(lineInputs, LineItemInput{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
		})
	}

	issueDate := now.Truncate(24 * time.Hour)
	invoice, err := s.invoiceSvc.Create(ctx, rec.TenantID, rec.CreatedBy, InvoiceInput{
		ClientID:      rec.ClientID,
		TemplateID:    rec.TemplateID,
		Currency:      rec.Currency,
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDate(0, 0, rec.DueInDays),
		LineItems:     lineInputs,
		DiscountType:  rec.DiscountType,
		DiscountValue: rec.DiscountValue,
		TaxRate:       rec.TaxRate,
		Notes:         rec.Notes,
	})
	if err != nil {
		return fmt.Errorf("generating invoice: %w", err)
	}

	if rec.AutoSend {
		if _, err := s.invoiceSvc.Send(ctx, rec.TenantID, invoice.ID); err != nil {
			// Keep the invoice as a draft; sending can be retried by hand.
			log.Printf("recurringService.generateOne: auto-send of invoice %s failed: %v", invoice.Number, err)
		}
	}

	nextRun := NextRun(rec.NextRunAt, rec.Frequency)
	deactivate := rec.EndDate != nil && nextRun.After(*rec.EndDate)
	if err := s.recurringRepo.MarkRun(ctx, rec.ID, now, nextRun, deactivate); err != nil {
		return fmt.Errorf("advancing schedule: %w", err)
	}

	log.Printf("recurringService.generateOne: schedule %s generated invoice %s (next run %s, deactivate=%t)",
		rec.ID, invoice.Number, nextRun.Format(time.RFC3339), deactivate)
	return nil
}
