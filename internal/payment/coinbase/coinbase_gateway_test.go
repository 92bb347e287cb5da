package coinbase_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/payment/coinbase"
	"sleekinvoices/internal/port"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateCharge(t *testing.T) {
	invoiceID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cc_test_key", r.Header.Get("X-CC-Api-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "fixed_price", body["pricing_type"])
		price := body["local_price"].(map[string]interface{})
		assert.Equal(t, "1030.73", price["amount"])
		assert.Equal(t, "USD", price["currency"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data":{"code":"CHARGE1","hosted_url":"https://commerce.coinbase.com/charges/CHARGE1"}}`)
	}))
	defer server.Close()

	g := coinbase.NewGatewayWithEndpoint("cc_test_key", "cc_whsec", server.URL)
	session, err := g.CreateCharge(context.Background(), port.CheckoutInput{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-000042",
		Currency:      "USD",
		Amount:        decimal.RequireFromString("1030.73"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CHARGE1", session.ID)
	assert.Equal(t, "https://commerce.coinbase.com/charges/CHARGE1", session.URL)
}

func TestVerifyWebhookConfirmed(t *testing.T) {
	g := coinbase.NewGateway("cc_test_key", "cc_whsec")
	invoiceID := uuid.New()

	payload := []byte(fmt.Sprintf(`{
		"event": {
			"type": "charge:confirmed",
			"data": {
				"code": "CHARGE1",
				"pricing": {"local": {"amount": "1030.73", "currency": "USD"}},
				"metadata": {"invoice_id": %q}
			}
		}
	}`, invoiceID))

	event, err := g.VerifyWebhook(payload, sign("cc_whsec", payload))
	require.NoError(t, err)
	assert.True(t, event.Succeeded)
	assert.Equal(t, "CHARGE1", event.GatewayRef)
	assert.Equal(t, invoiceID, event.InvoiceID)
	assert.Equal(t, "1030.73", event.Amount.StringFixed(2))
}

func TestVerifyWebhookFailureEvents(t *testing.T) {
	g := coinbase.NewGateway("cc_test_key", "cc_whsec")

	for _, eventType := range []string{"charge:failed", "charge:expired", "charge:pending"} {
		t.Run(eventType, func(t *testing.T) {
			payload := []byte(fmt.Sprintf(`{"event":{"type":%q,"data":{"code":"CHARGE2"}}}`, eventType))
			event, err := g.VerifyWebhook(payload, sign("cc_whsec", payload))
			require.NoError(t, err)
			assert.False(t, event.Succeeded)
			assert.NotEmpty(t, event.FailureNote)
		})
	}
}

func TestVerifyWebhookBadSignature(t *testing.T) {
	g := coinbase.NewGateway("cc_test_key", "cc_whsec")
	payload := []byte(`{"event":{"type":"charge:confirmed"}}`)

	_, err := g.VerifyWebhook(payload, sign("other-secret", payload))
	assert.ErrorIs(t, err, domain.ErrWebhookSignature)

	_, err = g.VerifyWebhook(payload, "")
	assert.ErrorIs(t, err, domain.ErrWebhookSignature)
}
