package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sleekinvoices/internal/service"
)

// RecurringHandler handles recurring invoice template endpoints.
type RecurringHandler struct {
	recurringService service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// Create handles POST /api/v1/recurring
// @Summary Create a recurring invoice template
// @Tags recurring
// @Accept json
// @Produce json
// @Param request body service.RecurringInput true "Recurring template payload"
// @Success 201 {object} Response{data=domain.RecurringInvoice} "Created template"
// @Failure 400 {object} ErrorResponseBody "Validation failed"
// @Security BearerAuth
// @Router /recurring [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.RecurringInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rec, err := h.recurringService.Create(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// List handles GET /api/v1/recurring
// @Summary List recurring invoice templates
// @Tags recurring
// @Produce json
// @Param active query bool false "Only active templates"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.RecurringInvoice} "Templates"
// @Security BearerAuth
// @Router /recurring [get]
func (h *RecurringHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	activeOnly := c.Query("active") == "true"
	recs, total, err := h.recurringService.List(c.Request.Context(), tenantID, activeOnly, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, recs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/recurring/:id
// @Summary Get a recurring invoice template by ID
// @Tags recurring
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=domain.RecurringInvoice} "Template"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /recurring/{id} [get]
func (h *RecurringHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	recID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.recurringService.GetByID(c.Request.Context(), tenantID, recID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Update handles PUT /api/v1/recurring/:id
// @Summary Update a recurring invoice template
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body service.RecurringInput true "Recurring template payload"
// @Success 200 {object} Response{data=domain.RecurringInvoice} "Updated template"
// @Security BearerAuth
// @Router /recurring/{id} [put]
func (h *RecurringHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	recID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.RecurringInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rec, err := h.recurringService.Update(c.Request.Context(), tenantID, recID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Delete handles DELETE /api/v1/recurring/:id
// @Summary Delete a recurring invoice template
// @Tags recurring
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Security BearerAuth
// @Router /recurring/{id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	recID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recurringService.Delete(c.Request.Context(), tenantID, recID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "recurring invoice deleted"})
}

// Pause handles POST /api/v1/recurring/:id/pause
// @Summary Pause a recurring invoice template
// @Tags recurring
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=domain.RecurringInvoice} "Paused template"
// @Security BearerAuth
// @Router /recurring/{id}/pause [post]
func (h *RecurringHandler) Pause(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	recID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.recurringService.Pause(c.Request.Context(), tenantID, recID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Resume handles POST /api/v1/recurring/:id/resume
// @Summary Resume a paused recurring invoice template
// @Description Resumes generation. A next run date in the past is advanced to the next future occurrence.
// @Tags recurring
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=domain.RecurringInvoice} "Resumed template"
// @Security BearerAuth
// @Router /recurring/{id}/resume [post]
func (h *RecurringHandler) Resume(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	recID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.recurringService.Resume(c.Request.Context(), tenantID, recID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}
