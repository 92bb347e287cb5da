package stripe

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

const apiURL = "https://api.stripe.com/v1/checkout/sessions"

// signatureTolerance bounds the age of a signed webhook payload so a captured
// signature cannot be replayed later.
const signatureTolerance = 5 * time.Minute

// Gateway implements port.PaymentGateway against the Stripe Checkout API.
type Gateway struct {
	secretKey     string
	webhookSecret string
	endpoint      string
	client        *http.Client
}

// NewGateway creates a Stripe-backed payment gateway.
func NewGateway(secretKey, webhookSecret string) *Gateway {
	return newGateway(secretKey, webhookSecret, apiURL)
}

// NewGatewayWithEndpoint creates a gateway pointing at a custom API endpoint (for testing).
func NewGatewayWithEndpoint(secretKey, webhookSecret, endpoint string) *Gateway {
	return newGateway(secretKey, webhookSecret, endpoint)
}

func newGateway(secretKey, webhookSecret, endpoint string) *Gateway {
	return &Gateway{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		endpoint:      endpoint,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *Gateway) CreateCheckout(ctx context.Context, input port.CheckoutInput) (*port.CheckoutSession, error) {
	// Stripe amounts are integer minor units (cents for USD).
	amountCents := input.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", input.SuccessURL)
	form.Set("cancel_url", input.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(input.Currency))
	form.Set("line_items[0][price_data][unit_amount]", fmt.Sprintf("%d", amountCents))
	form.Set("line_items[0][price_data][product_data][name]", input.Description)
	form.Set("metadata[invoice_id]", input.InvoiceID.String())
	form.Set("metadata[invoice_number]", input.InvoiceNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint,
		bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling stripe API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}

	return &port.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// VerifyWebhook checks the Stripe-Signature header (t=...,v1=... scheme,
// HMAC-SHA256 over "timestamp.payload") and normalizes the event. Signed
// timestamps older than the tolerance window are rejected even when the
// signature itself is valid.
func (g *Gateway) VerifyWebhook(payload []byte, signatureHeader string) (*port.WebhookEvent, error) {
	timestamp, signatures := parseSignatureHeader(signatureHeader)
	if timestamp == "" || len(signatures) == 0 {
		return nil, domain.ErrWebhookSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return nil, domain.ErrWebhookSignature
	}
	if age := time.Since(time.Unix(ts, 0)); age > signatureTolerance || age < -signatureTolerance {
		return nil, domain.ErrWebhookSignature
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	verified := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, domain.ErrWebhookSignature
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID          string `json:"id"`
				AmountTotal int64  `json:"amount_total"`
				Currency    string `json:"currency"`
				Metadata    struct {
					InvoiceID string `json:"invoice_id"`
				} `json:"metadata"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("unmarshaling webhook event: %w", err)
	}

	obj := event.Data.Object
	invoiceID, _ := uuid.Parse(obj.Metadata.InvoiceID)

	out := &port.WebhookEvent{
		GatewayRef: obj.ID,
		InvoiceID:  invoiceID,
		Amount:     decimal.NewFromInt(obj.AmountTotal).Div(decimal.NewFromInt(100)),
		Currency:   strings.ToUpper(obj.Currency),
	}

	switch event.Type {
	case "checkout.session.completed":
		out.Succeeded = true
	case "checkout.session.expired":
		out.FailureNote = "checkout session expired"
	default:
		out.FailureNote = fmt.Sprintf("unhandled event type %s", event.Type)
	}
	return out, nil
}

// parseSignatureHeader splits "t=1699000000,v1=abc,v1=def" into the timestamp
// and the list of v1 signatures.
func parseSignatureHeader(header string) (string, []string) {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	return timestamp, signatures
}
