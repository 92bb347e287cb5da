// Package validator gates form submission with independent field checks.
// Validation never alters calculated values; the billing engine accepts
// inputs that fail validation, since totals are recomputed live while a
// form is still incomplete.
package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// InvoiceForm carries the user-supplied invoice fields subject to validation.
type InvoiceForm struct {
	ClientID      uuid.UUID
	IssueDate     time.Time
	DueDate       time.Time
	LineItems     []domain.LineItem
	DiscountType  domain.DiscountType
	DiscountValue decimal.Decimal
	TaxRate       decimal.Decimal
}

// ValidateInvoiceForm checks every rule independently and returns a map of
// field path to human-readable message. An empty map means the form may be
// submitted.
func ValidateInvoiceForm(form InvoiceForm) map[string]string {
	errs := make(map[string]string)

	if form.ClientID == uuid.Nil {
		errs["client_id"] = "client is required"
	}
	if !form.IssueDate.IsZero() && !form.DueDate.IsZero() && form.DueDate.Before(form.IssueDate) {
		errs["due_date"] = "due date cannot be before issue date"
	}

	if len(form.LineItems) == 0 {
		errs["line_items"] = "at least one line item is required"
	}
	for i, li := range form.LineItems {
		if strings.TrimSpace(li.Description) == "" {
			errs[fmt.Sprintf("line_items[%d].description", i)] = "description is required"
		}
		if !li.Quantity.IsPositive() {
			errs[fmt.Sprintf("line_items[%d].quantity", i)] = "quantity must be greater than zero"
		}
		if li.Rate.IsNegative() {
			errs[fmt.Sprintf("line_items[%d].rate", i)] = "rate cannot be negative"
		}
	}

	if form.DiscountType != domain.DiscountPercentage && form.DiscountType != domain.DiscountFixed {
		errs["discount_type"] = "discount type must be percentage or fixed"
	}
	if form.DiscountValue.IsNegative() {
		errs["discount_value"] = "discount value cannot be negative"
	}
	if form.TaxRate.IsNegative() || form.TaxRate.GreaterThan(hundred) {
		errs["tax_rate"] = "tax rate must be between 0 and 100"
	}

	return errs
}
