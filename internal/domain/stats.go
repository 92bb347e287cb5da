package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats aggregates the numbers shown on the dashboard.
type DashboardStats struct {
	TotalRevenue     decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	Outstanding      decimal.Decimal `db:"outstanding" json:"outstanding"`
	OverdueCount     int             `db:"overdue_count" json:"overdue_count"`
	DraftCount       int             `db:"draft_count" json:"draft_count"`
	PaidThisMonth    decimal.Decimal `db:"paid_this_month" json:"paid_this_month"`
	ExpensesThisMonth decimal.Decimal `db:"expenses_this_month" json:"expenses_this_month"`
	ActiveClients    int             `db:"active_clients" json:"active_clients"`
}

// MonthlyRevenue is one month's revenue and expense totals.
type MonthlyRevenue struct {
	Month    time.Time       `db:"month" json:"month"`
	Revenue  decimal.Decimal `db:"revenue" json:"revenue"`
	Expenses decimal.Decimal `db:"expenses" json:"expenses"`
}

// ClientRevenue ranks a client by billed and collected amounts.
type ClientRevenue struct {
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	ClientName   string          `db:"client_name" json:"client_name"`
	InvoiceCount int             `db:"invoice_count" json:"invoice_count"`
	Billed       decimal.Decimal `db:"billed" json:"billed"`
	Collected    decimal.Decimal `db:"collected" json:"collected"`
}

// CategoryTotal is an expense total grouped by category.
type CategoryTotal struct {
	Category ExpenseCategory `db:"category" json:"category"`
	Total    decimal.Decimal `db:"total" json:"total"`
	Count    int             `db:"count" json:"count"`
}
