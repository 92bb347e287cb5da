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
	"sleekinvoices/internal/money"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/validator"
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form validation failed (%d fields)", len(e.Fields))
}

// LineItemInput is one line item in an invoice or estimate form.
type LineItemInput struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// InvoiceInput is the DTO for creating or updating an invoice.
type InvoiceInput struct {
	ClientID      uuid.UUID           `json:"client_id" binding:"required"`
	TemplateID    *uuid.UUID          `json:"template_id"`
	Currency      string              `json:"currency"`
	IssueDate     time.Time           `json:"issue_date" binding:"required"`
	DueDate       time.Time           `json:"due_date" binding:"required"`
	LineItems     []LineItemInput     `json:"line_items" binding:"required"`
	DiscountType  domain.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	TaxRate       decimal.Decimal     `json:"tax_rate"`
	Notes         string              `json:"notes"`
}

// InvoicePDFRenderer renders a finished invoice to PDF bytes. Implementations
// consume the stored totals as-is and never recompute them.
type InvoicePDFRenderer interface {
	RenderInvoice(invoice *domain.Invoice, client *domain.Client, tpl *domain.Template) ([]byte, error)
}

// InvoiceService defines the invoice management contract.
type InvoiceService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input InvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, tenantID uuid.UUID, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, tenantID, invoiceID uuid.UUID, input InvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error
	Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	RecordManualPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, amount decimal.Decimal, receivedAt time.Time) (*domain.Invoice, error)
	RenderPDF(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]byte, error)
	SweepOverdue(ctx context.Context) (int64, error)
}

type invoiceService struct {
	invoiceRepo  port.InvoiceRepository
	clientRepo   port.ClientRepository
	paymentRepo  port.PaymentRepository
	templateRepo port.TemplateRepository
	emailSender  port.EmailSender
	renderer     InvoicePDFRenderer
	frontendURL  string
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	clientRepo port.ClientRepository,
	paymentRepo port.PaymentRepository,
	templateRepo port.TemplateRepository,
	emailSender port.EmailSender,
	renderer InvoicePDFRenderer,
	frontendURL string,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		paymentRepo:  paymentRepo,
		templateRepo: templateRepo,
		emailSender:  emailSender,
		renderer:     renderer,
		frontendURL:  frontendURL,
	}
}

func toLineItems(inputs []LineItemInput) domain.LineItems {
	items := make(domain.LineItems, 0, len(inputs))
	for _, in := range inputs {
		id := in.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		items = append(items, domain.LineItem{
			ID:          id,
			Description: in.Description,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
		})
	}
	return items
}

// validateAndPrice gates the form and, when it passes, derives the four
// totals from scratch. Stored totals are always a fresh computation from the
// submitted items, never carried over from a previous version.
func validateAndPrice(input InvoiceInput) (domain.LineItems, billing.Totals, error) {
	items := toLineItems(input.LineItems)

	fieldErrs := validator.ValidateInvoiceForm(validator.InvoiceForm{
		ClientID:      input.ClientID,
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
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

func (s *invoiceService) Create(ctx context.Context, tenantID, userID uuid.UUID, input InvoiceInput) (*domain.Invoice, error) {
	items, totals, err := validateAndPrice(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, tenantID, input.ClientID); err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.NextNumber(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("reserving invoice number: %w", err)
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	invoice := &domain.Invoice{
		TenantID:       tenantID,
		ClientID:       input.ClientID,
		TemplateID:     input.TemplateID,
		Number:         number,
		Status:         domain.InvoiceStatusDraft,
		Currency:       currency,
		IssueDate:      input.IssueDate,
		DueDate:        input.DueDate,
		LineItems:      items,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		TaxRate:        input.TaxRate,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.TaxAmount,
		Total:          totals.Total,
		AmountPaid:     decimal.Zero,
		Notes:          input.Notes,
		CreatedBy:      userID,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}
	log.Printf("invoiceService.Create: invoice %s (%s) created for tenant %s", invoice.ID, number, tenantID)
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, tenantID uuid.UUID, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.ListByTenant(ctx, tenantID, filter, offset, limit)
}

func (s *invoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, input InvoiceInput) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return nil, domain.ErrInvoiceNotEditable
	}

	items, totals, err := validateAndPrice(input)
	if err != nil {
		return nil, err
	}

	invoice.ClientID = input.ClientID
	invoice.TemplateID = input.TemplateID
	if input.Currency != "" {
		invoice.Currency = input.Currency
	}
	invoice.IssueDate = input.IssueDate
	invoice.DueDate = input.DueDate
	invoice.LineItems = items
	invoice.DiscountType = input.DiscountType
	invoice.DiscountValue = input.DiscountValue
	invoice.TaxRate = input.TaxRate
	invoice.Subtotal = totals.Subtotal
	invoice.DiscountAmount = totals.DiscountAmount
	invoice.TaxAmount = totals.TaxAmount
	invoice.Total = totals.Total
	invoice.Notes = input.Notes

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Delete removes draft invoices only. Anything already sent stays on the
// books; use Cancel instead.
func (s *invoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return domain.ErrInvoiceNotEditable
	}
	log.Printf("invoiceService.Delete: deleting draft invoice %s for tenant %s", invoiceID, tenantID)
	return s.invoiceRepo.Delete(ctx, tenantID, invoiceID)
}

func (s *invoiceService) Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case domain.InvoiceStatusDraft, domain.InvoiceStatusSent, domain.InvoiceStatusOverdue:
		// draft transitions to sent; resending a sent or overdue invoice
		// is allowed as a reminder
	default:
		return nil, domain.ErrInvalidTransition
	}

	client, err := s.clientRepo.GetByID(ctx, tenantID, invoice.ClientID)
	if err != nil {
		return nil, err
	}
	if client.Email == "" {
		return nil, &ValidationError{Fields: map[string]string{"client.email": "client has no email address"}}
	}

	email := port.InvoiceEmail{
		ToEmail:       client.Email,
		ToName:        client.Name,
		InvoiceNumber: invoice.Number,
		Currency:      invoice.Currency,
		AmountDue:     money.Format(invoice.BalanceDue()),
		DueDate:       invoice.DueDate.Format("January 2, 2006"),
		PayURL:        fmt.Sprintf("%s/pay/%s", s.frontendURL, invoice.ID),
	}
	if err := s.emailSender.SendInvoiceEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("sending invoice email: %w", err)
	}

	if invoice.Status == domain.InvoiceStatusDraft {
		now := time.Now().UTC()
		invoice.Status = domain.InvoiceStatusSent
		invoice.SentAt = &now
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return nil, err
		}
	}
	log.Printf("invoiceService.Send: invoice %s sent to %s", invoice.Number, client.Email)
	return invoice, nil
}

func (s *invoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, domain.ErrInvoiceAlreadyPaid
	}
	if invoice.Status == domain.InvoiceStatusCancelled {
		return invoice, nil
	}

	invoice.Status = domain.InvoiceStatusCancelled
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	log.Printf("invoiceService.Cancel: invoice %s cancelled", invoice.Number)
	return invoice, nil
}

// RecordManualPayment registers an offline payment (bank transfer, cash) and
// applies it to the invoice balance atomically.
func (s *invoiceService) RecordManualPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, amount decimal.Decimal, receivedAt time.Time) (*domain.Invoice, error) {
	if !amount.IsPositive() {
		return nil, &ValidationError{Fields: map[string]string{"amount": "payment amount must be greater than zero"}}
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, domain.ErrInvoiceAlreadyPaid
	}
	if invoice.Status == domain.InvoiceStatusDraft || invoice.Status == domain.InvoiceStatusCancelled {
		return nil, domain.ErrInvalidTransition
	}

	received := receivedAt.UTC()
	payment := &domain.Payment{
		TenantID:   tenantID,
		InvoiceID:  invoiceID,
		Method:     domain.PaymentMethodManual,
		Status:     domain.PaymentStatusCompleted,
		Amount:     amount,
		Currency:   invoice.Currency,
		ReceivedAt: &received,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}

	updated, err := s.invoiceRepo.ApplyPayment(ctx, tenantID, invoiceID, amount, received)
	if err != nil {
		return nil, fmt.Errorf("applying payment: %w", err)
	}
	log.Printf("invoiceService.RecordManualPayment: %s %s applied to invoice %s (balance %s)",
		money.Format(amount), invoice.Currency, invoice.Number, money.Format(updated.BalanceDue()))
	return updated, nil
}

func (s *invoiceService) RenderPDF(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]byte, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, tenantID, invoice.ClientID)
	if err != nil {
		return nil, err
	}

	tpl := s.resolveTemplate(ctx, tenantID, invoice.TemplateID)

	pdf, err := s.renderer.RenderInvoice(invoice, client, tpl)
	if err != nil {
		return nil, fmt.Errorf("rendering invoice PDF: %w", err)
	}
	return pdf, nil
}

// resolveTemplate picks the invoice's template, falling back to the tenant
// default, then to nil (renderer uses built-in styling).
func (s *invoiceService) resolveTemplate(ctx context.Context, tenantID uuid.UUID, templateID *uuid.UUID) *domain.Template {
	if templateID != nil {
		if tpl, err := s.templateRepo.GetByID(ctx, tenantID, *templateID); err == nil {
			return tpl
		}
	}
	tpl, err := s.templateRepo.GetDefault(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrTemplateNotFound) {
			log.Printf("invoiceService.resolveTemplate: default template lookup failed: %v", err)
		}
		return nil
	}
	return tpl
}

// SweepOverdue flips sent invoices past their due date to overdue across all
// tenants. Called periodically by the background worker.
func (s *invoiceService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.invoiceRepo.MarkOverdue(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("marking overdue invoices: %w", err)
	}
	if n > 0 {
		log.Printf("invoiceService.SweepOverdue: %d invoices marked overdue", n)
	}
	return n, nil
}
