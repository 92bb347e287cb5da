package port

import (
	"context"
	"encoding/json"
)

// ExtractInput carries the free-text description for AI-assisted invoice
// creation, e.g. "bill Acme for 10 hours of design at $120/hr plus a $50
// domain fee, 10% tax, due in 30 days".
type ExtractInput struct {
	Description string
	Currency    string
}

// ExtractOutput contains the structured draft produced by the LLM. The raw
// JSON is kept for auditing; the service layer parses, validates, and prices
// it before anything reaches the caller.
type ExtractOutput struct {
	DraftJSON  json.RawMessage
	ModelUsed  string
	PromptUsed string
}

// InvoiceExtractor abstracts LLM-based invoice draft extraction.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
