package coinbase

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
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

const apiURL = "https://api.commerce.coinbase.com/charges"

// Gateway implements port.CryptoGateway against the Coinbase Commerce API.
type Gateway struct {
	apiKey        string
	webhookSecret string
	endpoint      string
	client        *http.Client
}

// NewGateway creates a Coinbase-Commerce-backed crypto gateway.
func NewGateway(apiKey, webhookSecret string) *Gateway {
	return newGateway(apiKey, webhookSecret, apiURL)
}

// NewGatewayWithEndpoint creates a gateway pointing at a custom API endpoint (for testing).
func NewGatewayWithEndpoint(apiKey, webhookSecret, endpoint string) *Gateway {
	return newGateway(apiKey, webhookSecret, endpoint)
}

func newGateway(apiKey, webhookSecret, endpoint string) *Gateway {
	return &Gateway{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		endpoint:      endpoint,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *Gateway) CreateCharge(ctx context.Context, input port.CheckoutInput) (*port.CheckoutSession, error) {
	reqBody := map[string]interface{}{
		"name":         input.InvoiceNumber,
		"description":  input.Description,
		"pricing_type": "fixed_price",
		"local_price": map[string]string{
			"amount":   input.Amount.StringFixed(2),
			"currency": input.Currency,
		},
		"metadata": map[string]string{
			"invoice_id":     input.InvoiceID.String(),
			"invoice_number": input.InvoiceNumber,
		},
		"redirect_url": input.SuccessURL,
		"cancel_url":   input.CancelURL,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CC-Api-Key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling coinbase API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coinbase API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var charge struct {
		Data struct {
			Code      string `json:"code"`
			HostedURL string `json:"hosted_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &charge); err != nil {
		return nil, fmt.Errorf("unmarshaling charge: %w", err)
	}

	return &port.CheckoutSession{ID: charge.Data.Code, URL: charge.Data.HostedURL}, nil
}

// VerifyWebhook checks the X-CC-Webhook-Signature header (hex HMAC-SHA256 of
// the raw payload) and normalizes the event.
func (g *Gateway) VerifyWebhook(payload []byte, signatureHeader string) (*port.WebhookEvent, error) {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(signatureHeader), []byte(expected)) {
		return nil, domain.ErrWebhookSignature
	}

	var event struct {
		Event struct {
			Type string `json:"type"`
			Data struct {
				Code     string `json:"code"`
				Pricing  struct {
					Local struct {
						Amount   string `json:"amount"`
						Currency string `json:"currency"`
					} `json:"local"`
				} `json:"pricing"`
				Metadata struct {
					InvoiceID string `json:"invoice_id"`
				} `json:"metadata"`
			} `json:"data"`
		} `json:"event"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("unmarshaling webhook event: %w", err)
	}

	data := event.Event.Data
	invoiceID, _ := uuid.Parse(data.Metadata.InvoiceID)
	amount, _ := decimal.NewFromString(data.Pricing.Local.Amount)

	out := &port.WebhookEvent{
		GatewayRef: data.Code,
		InvoiceID:  invoiceID,
		Amount:     amount,
		Currency:   data.Pricing.Local.Currency,
	}

	switch event.Event.Type {
	case "charge:confirmed", "charge:resolved":
		out.Succeeded = true
	case "charge:failed":
		out.FailureNote = "charge failed"
	case "charge:expired":
		out.FailureNote = "charge expired"
	default:
		out.FailureNote = fmt.Sprintf("unhandled event type %s", event.Event.Type)
	}
	return out, nil
}
