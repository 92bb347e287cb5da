package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

// ExpenseInput is the DTO for creating or updating an expense.
type ExpenseInput struct {
	Category    domain.ExpenseCategory `json:"category" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Currency    string                 `json:"currency"`
	IncurredOn  time.Time              `json:"incurred_on" binding:"required"`
	Vendor      string                 `json:"vendor"`
	Notes       string                 `json:"notes"`
}

// ExpenseService defines the expense tracking contract.
type ExpenseService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input ExpenseInput) (*domain.Expense, error)
	GetByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*domain.Expense, error)
	List(ctx context.Context, tenantID uuid.UUID, category domain.ExpenseCategory, offset, limit int) ([]domain.Expense, int, error)
	Update(ctx context.Context, tenantID, expenseID uuid.UUID, input ExpenseInput) (*domain.Expense, error)
	Delete(ctx context.Context, tenantID, expenseID uuid.UUID) error
}

type expenseService struct {
	expenseRepo port.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService implementation.
func NewExpenseService(expenseRepo port.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo}
}

func validateExpense(input ExpenseInput) error {
	errs := make(map[string]string)
	if !input.Amount.IsPositive() {
		errs["amount"] = "amount must be greater than zero"
	}
	switch input.Category {
	case domain.ExpenseCategorySoftware, domain.ExpenseCategoryTravel,
		domain.ExpenseCategoryOffice, domain.ExpenseCategoryMarketing,
		domain.ExpenseCategoryOther:
	default:
		errs["category"] = "unknown expense category"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func (s *expenseService) Create(ctx context.Context, tenantID, userID uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	if err := validateExpense(input); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	expense := &domain.Expense{
		TenantID:    tenantID,
		Category:    input.Category,
		Description: input.Description,
		Amount:      input.Amount,
		Currency:    currency,
		IncurredOn:  input.IncurredOn,
		Vendor:      input.Vendor,
		Notes:       input.Notes,
		CreatedBy:   userID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) GetByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ctx, tenantID, expenseID)
}

func (s *expenseService) List(ctx context.Context, tenantID uuid.UUID, category domain.ExpenseCategory, offset, limit int) ([]domain.Expense, int, error) {
	return s.expenseRepo.ListByTenant(ctx, tenantID, category, offset, limit)
}

func (s *expenseService) Update(ctx context.Context, tenantID, expenseID uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	if err := validateExpense(input); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.GetByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	expense.Category = input.Category
	expense.Description = input.Description
	expense.Amount = input.Amount
	if input.Currency != "" {
		expense.Currency = input.Currency
	}
	expense.IncurredOn = input.IncurredOn
	expense.Vendor = input.Vendor
	expense.Notes = input.Notes

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	return s.expenseRepo.Delete(ctx, tenantID, expenseID)
}
