// Package billing derives invoice totals from line items and the
// discount/tax configuration. Calculation is a pure function: no I/O,
// no state, safe to re-invoke on every form change.
package billing

import (
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/money"
)

// Totals holds the four derived invoice amounts in exact decimal form.
// Each field is re-derivable from the same inputs; nothing here is state.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// Calculate computes invoice totals in a fixed order:
//
//  1. subtotal = Σ quantity × rate over all line items
//  2. discount = percentage of subtotal, or the raw fixed amount; a
//     non-positive discount value short-circuits to zero without
//     consulting the discount type
//  3. tax = taxRate% of the post-discount base, never the subtotal
//  4. total = (subtotal − discount) + tax
//
// All steps use exact decimal arithmetic. A fixed discount larger than the
// subtotal is not clamped; the post-discount base and total go negative.
// Calculate never fails: nonsensical business input (negative quantities,
// oversized discounts) is the validation layer's concern, upstream.
func Calculate(items []domain.LineItem, taxRate decimal.Decimal, discountType domain.DiscountType, discountValue decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.Rate))
	}

	discount := decimal.Zero
	if discountValue.IsPositive() {
		if discountType == domain.DiscountPercentage {
			discount = money.Percentage(subtotal, discountValue)
		} else {
			discount = discountValue
		}
	}

	afterDiscount := subtotal.Sub(discount)
	tax := money.Percentage(afterDiscount, taxRate)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		Total:          afterDiscount.Add(tax),
	}
}

// Rounded returns the totals with each field rounded to display precision
// independently from its exact intermediate, rather than chaining already
// rounded values through later steps. The rounded fields may therefore
// disagree by one cent with subtotal − discount + tax recomputed from the
// rounded values; the exact fields always satisfy that identity.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:       money.Round(t.Subtotal),
		DiscountAmount: money.Round(t.DiscountAmount),
		TaxAmount:      money.Round(t.TaxAmount),
		Total:          money.Round(t.Total),
	}
}

// Display renders each total as a fixed two-decimal string.
func (t Totals) Display() (subtotal, discount, tax, total string) {
	return money.Format(t.Subtotal), money.Format(t.DiscountAmount),
		money.Format(t.TaxAmount), money.Format(t.Total)
}
