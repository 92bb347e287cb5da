package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/export"
	"sleekinvoices/internal/service"
)

// ExpenseHandler handles expense tracking endpoints.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create handles POST /api/v1/expenses
// @Summary Record an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body service.ExpenseInput true "Expense payload"
// @Success 201 {object} Response{data=domain.Expense} "Created expense"
// @Failure 400 {object} ErrorResponseBody "Validation failed"
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, expense)
}

// List handles GET /api/v1/expenses
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Param category query string false "Filter by category (software, travel, office, marketing, other)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Expense} "Expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	expenses, total, err := h.expenseService.List(c.Request.Context(), tenantID,
		domain.ExpenseCategory(c.Query("category")), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, expenses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/expenses/:id
// @Summary Get an expense by ID
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} Response{data=domain.Expense} "Expense"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), tenantID, expenseID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, expense)
}

// Update handles PUT /api/v1/expenses/:id
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body service.ExpenseInput true "Expense payload"
// @Success 200 {object} Response{data=domain.Expense} "Updated expense"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), tenantID, expenseID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, expense)
}

// Delete handles DELETE /api/v1/expenses/:id
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), tenantID, expenseID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "expense deleted"})
}

// ExportCSV handles GET /api/v1/expenses/export
// @Summary Export expenses as CSV
// @Tags expenses
// @Produce text/csv
// @Param category query string false "Filter by category"
// @Success 200 {file} binary "CSV document"
// @Security BearerAuth
// @Router /expenses/export [get]
func (h *ExpenseHandler) ExportCSV(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filename := export.BuildFilename("expenses", "csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Writer.WriteHeader(http.StatusOK)
	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}

	w := export.NewExpenseWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}

	category := domain.ExpenseCategory(c.Query("category"))
	for offset := 0; ; offset += exportBatchSize {
		expenses, total, err := h.expenseService.List(c.Request.Context(), tenantID, category, offset, exportBatchSize)
		if err != nil {
			return
		}
		if err := w.WriteExpenses(expenses); err != nil {
			return
		}
		if offset+len(expenses) >= total || len(expenses) == 0 {
			break
		}
	}
	w.Flush()
}
