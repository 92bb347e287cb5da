package service

import (
	"context"
	"encoding/json"
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

// AssistInput is the DTO for AI-assisted invoice creation.
type AssistInput struct {
	Description string `json:"description" binding:"required"`
	Currency    string `json:"currency"`
}

// draftPayload is the JSON shape the extraction prompt asks the model for.
type draftPayload struct {
	ClientName    string          `json:"client_name"`
	LineItems     []draftLineItem `json:"line_items"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	DueInDays     int             `json:"due_in_days"`
	Notes         string          `json:"notes"`
}

type draftLineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// AssistDraft is a priced, pre-validated invoice draft. It is never
// persisted; the client reviews it and submits through the normal invoice
// create flow.
type AssistDraft struct {
	ClientName    string              `json:"client_name"`
	MatchedClient *domain.Client      `json:"matched_client,omitempty"`
	Currency      string              `json:"currency"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date"`
	LineItems     []domain.LineItem   `json:"line_items"`
	DiscountType  domain.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	TaxRate       decimal.Decimal     `json:"tax_rate"`
	Subtotal      string              `json:"subtotal"`
	Discount      string              `json:"discount"`
	Tax           string              `json:"tax"`
	Total         string              `json:"total"`
	Notes         string              `json:"notes"`
	FieldErrors   map[string]string   `json:"field_errors,omitempty"`
	ModelUsed     string              `json:"model_used"`
}

// AssistService defines the AI-assisted invoice creation contract.
type AssistService interface {
	DraftInvoice(ctx context.Context, tenantID uuid.UUID, input AssistInput) (*AssistDraft, error)
}

type assistService struct {
	extractor  port.InvoiceExtractor
	clientRepo port.ClientRepository
}

// NewAssistService creates a new AssistService implementation.
func NewAssistService(extractor port.InvoiceExtractor, clientRepo port.ClientRepository) AssistService {
	return &assistService{
		extractor:  extractor,
		clientRepo: clientRepo,
	}
}

func (s *assistService) DraftInvoice(ctx context.Context, tenantID uuid.UUID, input AssistInput) (*AssistDraft, error) {
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		Description: input.Description,
		Currency:    currency,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting invoice draft: %w", err)
	}

	var payload draftPayload
	if err := json.Unmarshal(out.DraftJSON, &payload); err != nil {
		log.Printf("assistService.DraftInvoice: model %s returned unparseable draft: %v", out.ModelUsed, err)
		return nil, fmt.Errorf("%w: draft is not valid JSON", domain.ErrExtractorUnavailable)
	}

	items := make(domain.LineItems, 0, len(payload.LineItems))
	for _, li := range payload.LineItems {
		items = append(items, domain.LineItem{
			ID:          uuid.New(),
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
		})
	}

	discountType := domain.DiscountType(payload.DiscountType)
	if discountType != domain.DiscountFixed {
		discountType = domain.DiscountPercentage
	}
	dueInDays := payload.DueInDays
	if dueInDays <= 0 {
		dueInDays = 30
	}
	issueDate := time.Now().UTC().Truncate(24 * time.Hour)
	dueDate := issueDate.AddDate(0, 0, dueInDays)

	draft := &AssistDraft{
		ClientName:    payload.ClientName,
		Currency:      currency,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		LineItems:     items,
		DiscountType:  discountType,
		DiscountValue: payload.DiscountValue,
		TaxRate:       payload.TaxRate,
		Notes:         payload.Notes,
		ModelUsed:     out.ModelUsed,
	}

	draft.MatchedClient = s.matchClient(ctx, tenantID, payload.ClientName)

	// Price the draft exactly as the create flow would, and surface the
	// same field errors the form would show. The draft is returned even
	// when invalid so the user can fix it in the editor.
	totals := billing.Calculate(items, draft.TaxRate, draft.DiscountType, draft.DiscountValue)
	draft.Subtotal, draft.Discount, draft.Tax, draft.Total = totals.Display()

	form := validator.InvoiceForm{
		IssueDate:     issueDate,
		DueDate:       dueDate,
		LineItems:     items,
		DiscountType:  draft.DiscountType,
		DiscountValue: draft.DiscountValue,
		TaxRate:       draft.TaxRate,
	}
	if draft.MatchedClient != nil {
		form.ClientID = draft.MatchedClient.ID
	}
	if errs := validator.ValidateInvoiceForm(form); len(errs) > 0 {
		draft.FieldErrors = errs
	}

	log.Printf("assistService.DraftInvoice: model %s drafted %d items for tenant %s (errors=%d)",
		out.ModelUsed, len(items), tenantID, len(draft.FieldErrors))
	return draft, nil
}

// matchClient resolves the extracted client name against existing clients.
// A single exact-ish match wins; anything ambiguous is left for the user.
func (s *assistService) matchClient(ctx context.Context, tenantID uuid.UUID, name string) *domain.Client {
	if name == "" {
		return nil
	}
	clients, total, err := s.clientRepo.ListByTenant(ctx, tenantID, name, 0, 2)
	if err != nil || total != 1 || len(clients) == 0 {
		return nil
	}
	return &clients[0]
}
