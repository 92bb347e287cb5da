package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

func TestExpenseService_CreateDefaultsCurrency(t *testing.T) {
	expenseRepo := new(mocks.MockExpenseRepo)
	svc := service.NewExpenseService(expenseRepo)
	tenantID, userID := uuid.New(), uuid.New()

	expenseRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Expense")).Return(nil)

	expense, err := svc.Create(context.Background(), tenantID, userID, service.ExpenseInput{
		Category:    domain.ExpenseCategorySoftware,
		Description: "Figma seats",
		Amount:      dec("45.00"),
		IncurredOn:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", expense.Currency)
	assert.Equal(t, userID, expense.CreatedBy)
}

func TestExpenseService_CreateRejectsBadInput(t *testing.T) {
	expenseRepo := new(mocks.MockExpenseRepo)
	svc := service.NewExpenseService(expenseRepo)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), service.ExpenseInput{
		Category:    "groceries",
		Description: "lunch",
		Amount:      dec("-5"),
		IncurredOn:  time.Now(),
	})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")
	assert.Contains(t, verr.Fields, "category")
	expenseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExpenseService_UpdateKeepsCurrencyWhenOmitted(t *testing.T) {
	expenseRepo := new(mocks.MockExpenseRepo)
	svc := service.NewExpenseService(expenseRepo)
	tenantID := uuid.New()

	existing := &domain.Expense{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Category:    domain.ExpenseCategoryOffice,
		Description: "Desks",
		Amount:      dec("900"),
		Currency:    "EUR",
	}
	expenseRepo.On("GetByID", mock.Anything, tenantID, existing.ID).Return(existing, nil)
	expenseRepo.On("Update", mock.Anything, existing).Return(nil)

	updated, err := svc.Update(context.Background(), tenantID, existing.ID, service.ExpenseInput{
		Category:    domain.ExpenseCategoryOffice,
		Description: "Standing desks",
		Amount:      dec("1100"),
		IncurredOn:  time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.Currency)
	assert.Equal(t, "Standing desks", updated.Description)
}
