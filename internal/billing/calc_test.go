package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/billing"
	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/money"
)

func item(qty, rate string) domain.LineItem {
	return domain.LineItem{
		Description: "work",
		Quantity:    decimal.RequireFromString(qty),
		Rate:        decimal.RequireFromString(rate),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate_ZeroItems(t *testing.T) {
	got := billing.Calculate(nil, decimal.Zero, domain.DiscountPercentage, decimal.Zero)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.DiscountAmount.IsZero())
	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestCalculate_Subtotal(t *testing.T) {
	items := []domain.LineItem{item("2", "50"), item("1", "25")}
	got := billing.Calculate(items, decimal.Zero, domain.DiscountPercentage, decimal.Zero)
	assert.Equal(t, "125.00", money.Format(got.Subtotal))
	assert.Equal(t, "125.00", money.Format(got.Total))
}

func TestCalculate_PercentageDiscountBeforeTax(t *testing.T) {
	items := []domain.LineItem{item("1", "100")}
	got := billing.Calculate(items, dec("10"), domain.DiscountPercentage, dec("10"))

	assert.Equal(t, "10.00", money.Format(got.DiscountAmount))
	// Tax applies to the post-discount base of 90, not the subtotal.
	assert.Equal(t, "9.00", money.Format(got.TaxAmount))
	assert.Equal(t, "99.00", money.Format(got.Total))
}

func TestCalculate_FixedDiscount(t *testing.T) {
	items := []domain.LineItem{item("1", "100")}
	got := billing.Calculate(items, decimal.Zero, domain.DiscountFixed, dec("15"))

	assert.Equal(t, "15.00", money.Format(got.DiscountAmount))
	assert.Equal(t, "85.00", money.Format(got.Total))
}

func TestCalculate_NonPositiveDiscountShortCircuits(t *testing.T) {
	items := []domain.LineItem{item("1", "100")}

	for _, dt := range []domain.DiscountType{domain.DiscountFixed, domain.DiscountPercentage} {
		got := billing.Calculate(items, dec("10"), dt, decimal.Zero)
		assert.True(t, got.DiscountAmount.IsZero(), "type %s", dt)
		assert.Equal(t, "110.00", money.Format(got.Total), "type %s", dt)

		got = billing.Calculate(items, dec("10"), dt, dec("-5"))
		assert.True(t, got.DiscountAmount.IsZero(), "type %s negative", dt)
	}
}

func TestCalculate_RoundingStability(t *testing.T) {
	items := []domain.LineItem{item("3", "0.1")}
	got := billing.Calculate(items, decimal.Zero, domain.DiscountPercentage, decimal.Zero)
	assert.Equal(t, "0.30", money.Format(got.Subtotal))
	assert.True(t, got.Subtotal.Equal(dec("0.3")))
}

func TestCalculate_Idempotent(t *testing.T) {
	items := []domain.LineItem{item("10", "75"), item("2", "49.99")}
	a := billing.Calculate(items, dec("8.5"), domain.DiscountPercentage, dec("5"))
	b := billing.Calculate(items, dec("8.5"), domain.DiscountPercentage, dec("5"))

	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.DiscountAmount.Equal(b.DiscountAmount))
	assert.True(t, a.TaxAmount.Equal(b.TaxAmount))
	assert.True(t, a.Total.Equal(b.Total))
}

func TestCalculate_MonotonicInRate(t *testing.T) {
	taxRate := dec("8.5")
	prev := decimal.Zero
	for _, rate := range []string{"10", "10.01", "50", "500", "500.01"} {
		items := []domain.LineItem{item("2", rate), item("1", "30")}
		got := billing.Calculate(items, taxRate, domain.DiscountPercentage, dec("5"))
		assert.True(t, got.Total.GreaterThanOrEqual(prev), "rate %s decreased the total", rate)
		prev = got.Total
	}
}

func TestCalculate_FixedDiscountExceedingSubtotal(t *testing.T) {
	items := []domain.LineItem{item("1", "100")}
	got := billing.Calculate(items, dec("10"), domain.DiscountFixed, dec("150"))

	// No clamping: the base and total go negative, and tax follows the sign
	// of the base.
	assert.Equal(t, "-50.00", money.Format(got.Subtotal.Sub(got.DiscountAmount)))
	assert.Equal(t, "-5.00", money.Format(got.TaxAmount))
	assert.Equal(t, "-55.00", money.Format(got.Total))
}

func TestCalculate_EndToEndRounding(t *testing.T) {
	items := []domain.LineItem{
		item("10", "70"),
		item("1", "200"),
		item("2", "49.99"),
	}
	got := billing.Calculate(items, dec("8.5"), domain.DiscountPercentage, dec("5"))

	// Exact intermediates.
	require.True(t, got.Subtotal.Equal(dec("999.98")))
	require.True(t, got.DiscountAmount.Equal(dec("49.999")))
	require.True(t, got.Subtotal.Sub(got.DiscountAmount).Equal(dec("949.981")))
	require.True(t, got.TaxAmount.Equal(dec("80.748385")))
	require.True(t, got.Total.Equal(dec("1030.729385")))

	// Each display value rounds independently from its exact intermediate,
	// not from a previously rounded value.
	subtotal, discount, tax, total := got.Display()
	assert.Equal(t, "999.98", subtotal)
	assert.Equal(t, "50.00", discount)
	assert.Equal(t, "80.75", tax)
	assert.Equal(t, "1030.73", total)

	rounded := got.Rounded()
	assert.True(t, rounded.Total.Equal(dec("1030.73")))
}

func TestTotals_ExactIdentity(t *testing.T) {
	items := []domain.LineItem{item("7", "13.37"), item("3", "0.01")}
	got := billing.Calculate(items, dec("19"), domain.DiscountPercentage, dec("2.5"))

	want := got.Subtotal.Sub(got.DiscountAmount).Add(got.TaxAmount)
	assert.True(t, got.Total.Equal(want))
}

func TestCalculate_ToleratesInvalidInput(t *testing.T) {
	// Negative quantity is rejected by validation upstream, but the engine
	// must still produce a consistent result.
	items := []domain.LineItem{item("-1", "100")}
	got := billing.Calculate(items, dec("10"), domain.DiscountPercentage, decimal.Zero)
	assert.Equal(t, "-100.00", money.Format(got.Subtotal))
	assert.Equal(t, "-110.00", money.Format(got.Total))
}
