package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutInput describes the payment a gateway should collect.
type CheckoutInput struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	Description   string
	Currency      string
	Amount        decimal.Decimal
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is a gateway-hosted payment page.
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is a gateway callback already verified and normalized.
type WebhookEvent struct {
	GatewayRef string
	InvoiceID  uuid.UUID
	Amount     decimal.Decimal
	Currency   string
	Succeeded  bool
	FailureNote string
}

// PaymentGateway abstracts a hosted card checkout provider.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error)
	// VerifyWebhook checks the signature and parses the payload into a
	// normalized event.
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

// CryptoGateway abstracts a hosted cryptocurrency charge provider.
type CryptoGateway interface {
	CreateCharge(ctx context.Context, input CheckoutInput) (*CheckoutSession, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
