package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents an isolated organizational tenant.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a tenant.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Client represents a billable customer of a tenant.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Company   string    `db:"company" json:"company"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LineItem is one billable row on an invoice, estimate, or recurring template.
// The ID exists only so clients can diff rows in a form; it carries no
// business meaning. Amount is derived (quantity × rate) and never stored.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount returns quantity × rate in exact decimal arithmetic.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}

// Invoice represents an invoice with its stored totals. Totals are always
// recomputed from line items before persisting; they are never edited
// directly or carried over stale.
type Invoice struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	TenantID       uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	ClientID       uuid.UUID       `db:"client_id" json:"client_id"`
	TemplateID     *uuid.UUID      `db:"template_id" json:"template_id"`
	Number         string          `db:"number" json:"number"`
	Status         InvoiceStatus   `db:"status" json:"status"`
	Currency       string          `db:"currency" json:"currency"`
	IssueDate      time.Time       `db:"issue_date" json:"issue_date"`
	DueDate        time.Time       `db:"due_date" json:"due_date"`
	LineItems      LineItems       `db:"line_items" json:"line_items"`
	DiscountType   DiscountType    `db:"discount_type" json:"discount_type"`
	DiscountValue  decimal.Decimal `db:"discount_value" json:"discount_value"`
	TaxRate        decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total          decimal.Decimal `db:"total" json:"total"`
	AmountPaid     decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	Notes          string          `db:"notes" json:"notes"`
	SentAt         *time.Time      `db:"sent_at" json:"sent_at"`
	PaidAt         *time.Time      `db:"paid_at" json:"paid_at"`
	CreatedBy      uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// BalanceDue returns total minus recorded payments, in exact decimals.
func (i *Invoice) BalanceDue() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// RecurringInvoice is a template that generates invoices on a schedule.
type RecurringInvoice struct {
	ID            uuid.UUID          `db:"id" json:"id"`
	TenantID      uuid.UUID          `db:"tenant_id" json:"tenant_id"`
	ClientID      uuid.UUID          `db:"client_id" json:"client_id"`
	TemplateID    *uuid.UUID         `db:"template_id" json:"template_id"`
	Currency      string             `db:"currency" json:"currency"`
	Frequency     RecurringFrequency `db:"frequency" json:"frequency"`
	NextRunAt     time.Time          `db:"next_run_at" json:"next_run_at"`
	EndDate       *time.Time         `db:"end_date" json:"end_date"`
	LineItems     LineItems          `db:"line_items" json:"line_items"`
	DiscountType  DiscountType       `db:"discount_type" json:"discount_type"`
	DiscountValue decimal.Decimal    `db:"discount_value" json:"discount_value"`
	TaxRate       decimal.Decimal    `db:"tax_rate" json:"tax_rate"`
	DueInDays     int                `db:"due_in_days" json:"due_in_days"`
	Notes         string             `db:"notes" json:"notes"`
	AutoSend      bool               `db:"auto_send" json:"auto_send"`
	IsActive      bool               `db:"is_active" json:"is_active"`
	LastRunAt     *time.Time         `db:"last_run_at" json:"last_run_at"`
	InvoiceCount  int                `db:"invoice_count" json:"invoice_count"`
	CreatedBy     uuid.UUID          `db:"created_by" json:"created_by"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

// Estimate represents a quote that may later convert into an invoice.
type Estimate struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	TenantID       uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	ClientID       uuid.UUID       `db:"client_id" json:"client_id"`
	Number         string          `db:"number" json:"number"`
	Status         EstimateStatus  `db:"status" json:"status"`
	Currency       string          `db:"currency" json:"currency"`
	IssueDate      time.Time       `db:"issue_date" json:"issue_date"`
	ExpiryDate     time.Time       `db:"expiry_date" json:"expiry_date"`
	LineItems      LineItems       `db:"line_items" json:"line_items"`
	DiscountType   DiscountType    `db:"discount_type" json:"discount_type"`
	DiscountValue  decimal.Decimal `db:"discount_value" json:"discount_value"`
	TaxRate        decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Notes          string          `db:"notes" json:"notes"`
	InvoiceID      *uuid.UUID      `db:"invoice_id" json:"invoice_id"`
	CreatedBy      uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Payment records money received against an invoice.
type Payment struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TenantID    uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Method      PaymentMethod   `db:"method" json:"method"`
	Status      PaymentStatus   `db:"status" json:"status"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	GatewayRef  string          `db:"gateway_ref" json:"gateway_ref"`
	FailureNote string          `db:"failure_note" json:"failure_note"`
	ReceivedAt  *time.Time      `db:"received_at" json:"received_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Expense records a business cost for reporting.
type Expense struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TenantID    uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Category    ExpenseCategory `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	IncurredOn  time.Time       `db:"incurred_on" json:"incurred_on"`
	Vendor      string          `db:"vendor" json:"vendor"`
	Notes       string          `db:"notes" json:"notes"`
	CreatedBy   uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Template holds invoice branding applied at PDF render time.
type Template struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TenantID    uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name        string    `db:"name" json:"name"`
	AccentColor string    `db:"accent_color" json:"accent_color"`
	LogoBucket  string    `db:"logo_bucket" json:"-"`
	LogoKey     string    `db:"logo_key" json:"logo_key"`
	FooterNote  string    `db:"footer_note" json:"footer_note"`
	IsDefault   bool      `db:"is_default" json:"is_default"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
