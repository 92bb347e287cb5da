package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

const validDraftJSON = `{
	"client_name": "Acme",
	"line_items": [
		{"description": "Design hours", "quantity": "10", "rate": "120"},
		{"description": "Domain fee", "quantity": "1", "rate": "50"}
	],
	"discount_type": "percentage",
	"discount_value": "0",
	"tax_rate": "10",
	"due_in_days": 30
}`

func TestAssistService_DraftInvoice(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewAssistService(extractor, clientRepo)
	tenantID := uuid.New()

	matched := domain.Client{ID: uuid.New(), TenantID: tenantID, Name: "Acme"}

	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Currency == "USD" && in.Description != ""
	})).Return(&port.ExtractOutput{
		DraftJSON: json.RawMessage(validDraftJSON),
		ModelUsed: "gpt-4o-mini",
	}, nil)
	clientRepo.On("ListByTenant", mock.Anything, tenantID, "Acme", 0, 2).
		Return([]domain.Client{matched}, 1, nil)

	draft, err := svc.DraftInvoice(context.Background(), tenantID, service.AssistInput{
		Description: "bill Acme for 10 hours of design at $120/hr plus a $50 domain fee, 10% tax, due in 30 days",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", draft.ClientName)
	require.NotNil(t, draft.MatchedClient)
	assert.Equal(t, matched.ID, draft.MatchedClient.ID)
	assert.Len(t, draft.LineItems, 2)
	assert.Equal(t, "1250.00", draft.Subtotal)
	assert.Equal(t, "125.00", draft.Tax)
	assert.Equal(t, "1375.00", draft.Total)
	assert.Equal(t, "gpt-4o-mini", draft.ModelUsed)
	assert.Empty(t, draft.FieldErrors)
	assert.Equal(t, 30, int(draft.DueDate.Sub(draft.IssueDate).Hours()/24))
}

func TestAssistService_DraftSurfacesFieldErrors(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewAssistService(extractor, clientRepo)
	tenantID := uuid.New()

	// No client match and a negative quantity: the draft still comes back,
	// annotated with the same errors the form would show.
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		DraftJSON: json.RawMessage(`{
			"client_name": "Nobody",
			"line_items": [{"description": "Mystery", "quantity": "-1", "rate": "10"}],
			"discount_type": "percentage",
			"tax_rate": "10"
		}`),
		ModelUsed: "gpt-4o-mini",
	}, nil)
	clientRepo.On("ListByTenant", mock.Anything, tenantID, "Nobody", 0, 2).
		Return([]domain.Client{}, 0, nil)

	draft, err := svc.DraftInvoice(context.Background(), tenantID, service.AssistInput{
		Description: "bill Nobody",
	})
	require.NoError(t, err)
	assert.Nil(t, draft.MatchedClient)
	assert.Contains(t, draft.FieldErrors, "client_id")
	assert.Contains(t, draft.FieldErrors, "line_items[0].quantity")
}

func TestAssistService_DraftRejectsUnparseableJSON(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	svc := service.NewAssistService(extractor, new(mocks.MockClientRepo))

	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		DraftJSON: json.RawMessage(`Sure! Here is your invoice:`),
		ModelUsed: "gpt-4o-mini",
	}, nil)

	_, err := svc.DraftInvoice(context.Background(), uuid.New(), service.AssistInput{
		Description: "bill Acme",
	})
	assert.ErrorIs(t, err, domain.ErrExtractorUnavailable)
}

func TestAssistService_DraftAmbiguousClientLeftUnmatched(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	clientRepo := new(mocks.MockClientRepo)
	svc := service.NewAssistService(extractor, clientRepo)
	tenantID := uuid.New()

	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		DraftJSON: json.RawMessage(validDraftJSON),
		ModelUsed: "claude-sonnet",
	}, nil)
	// Two candidates: ambiguous, so no client is pre-selected.
	clientRepo.On("ListByTenant", mock.Anything, tenantID, "Acme", 0, 2).
		Return([]domain.Client{{Name: "Acme East"}, {Name: "Acme West"}}, 2, nil)

	draft, err := svc.DraftInvoice(context.Background(), tenantID, service.AssistInput{
		Description: "bill Acme",
	})
	require.NoError(t, err)
	assert.Nil(t, draft.MatchedClient)
	assert.Contains(t, draft.FieldErrors, "client_id")
}
