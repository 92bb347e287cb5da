package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"sleekinvoices/internal/config"
	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/service"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "sleekinvoices-test",
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hash)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// lineItems returns the canonical three-row fixture used across the pricing
// tests: 10 × 70, 1 × 200, 2 × 49.99.
func lineItems() []service.LineItemInput {
	return []service.LineItemInput{
		{Description: "Design hours", Quantity: dec("10"), Rate: dec("70")},
		{Description: "Domain setup", Quantity: dec("1"), Rate: dec("200")},
		{Description: "Stock photos", Quantity: dec("2"), Rate: dec("49.99")},
	}
}

func draftInvoice(tenantID, clientID uuid.UUID) *domain.Invoice {
	now := time.Now().UTC()
	return &domain.Invoice{
		ID:             uuid.New(),
		TenantID:       tenantID,
		ClientID:       clientID,
		Number:         "INV-000007",
		Status:         domain.InvoiceStatusDraft,
		Currency:       "USD",
		IssueDate:      now,
		DueDate:        now.AddDate(0, 0, 30),
		DiscountType:   domain.DiscountPercentage,
		DiscountValue:  decimal.Zero,
		TaxRate:        decimal.Zero,
		Subtotal:       dec("500.00"),
		DiscountAmount: dec("0.00"),
		TaxAmount:      dec("0.00"),
		Total:          dec("500.00"),
		AmountPaid:     decimal.Zero,
	}
}
