package port

import (
	"context"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
)

// PaymentRepository defines the contract for payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error)
	GetByGatewayRef(ctx context.Context, gatewayRef string) (*domain.Payment, error)
	ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.Payment, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Payment, int, error)
	Update(ctx context.Context, payment *domain.Payment) error
}

// ExpenseRepository defines the contract for expense persistence.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*domain.Expense, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, category domain.ExpenseCategory, offset, limit int) ([]domain.Expense, int, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, tenantID, expenseID uuid.UUID) error
}

// TemplateRepository defines the contract for invoice template persistence.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.Template) error
	GetByID(ctx context.Context, tenantID, templateID uuid.UUID) (*domain.Template, error)
	GetDefault(ctx context.Context, tenantID uuid.UUID) (*domain.Template, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Template, error)
	Update(ctx context.Context, tpl *domain.Template) error
	SetDefault(ctx context.Context, tenantID, templateID uuid.UUID) error
	Delete(ctx context.Context, tenantID, templateID uuid.UUID) error
	CountInvoicesUsing(ctx context.Context, tenantID, templateID uuid.UUID) (int, error)
}
