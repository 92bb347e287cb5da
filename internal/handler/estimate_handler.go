package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/export"
	"sleekinvoices/internal/service"
)

// ConvertEstimateRequest is the body for converting an estimate to an invoice.
type ConvertEstimateRequest struct {
	DueInDays int `json:"due_in_days"`
}

// EstimateHandler handles estimate endpoints.
type EstimateHandler struct {
	estimateService service.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(estimateService service.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

// Create handles POST /api/v1/estimates
// @Summary Create a draft estimate
// @Tags estimates
// @Accept json
// @Produce json
// @Param request body service.EstimateInput true "Estimate payload"
// @Success 201 {object} Response{data=domain.Estimate} "Created estimate"
// @Failure 400 {object} ErrorResponseBody "Validation failed"
// @Security BearerAuth
// @Router /estimates [post]
func (h *EstimateHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.EstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	estimate, err := h.estimateService.Create(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, estimate)
}

// List handles GET /api/v1/estimates
// @Summary List estimates
// @Tags estimates
// @Produce json
// @Param status query string false "Filter by status (draft, sent, accepted, declined, expired, invoiced)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Estimate} "Estimates"
// @Security BearerAuth
// @Router /estimates [get]
func (h *EstimateHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	estimates, total, err := h.estimateService.List(c.Request.Context(), tenantID,
		domain.EstimateStatus(c.Query("status")), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, estimates, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/estimates/:id
// @Summary Get an estimate by ID
// @Tags estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} Response{data=domain.Estimate} "Estimate"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /estimates/{id} [get]
func (h *EstimateHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	estimate, err := h.estimateService.GetByID(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, estimate)
}

// Update handles PUT /api/v1/estimates/:id
// @Summary Update a draft estimate
// @Tags estimates
// @Accept json
// @Produce json
// @Param id path string true "Estimate ID"
// @Param request body service.EstimateInput true "Estimate payload"
// @Success 200 {object} Response{data=domain.Estimate} "Updated estimate"
// @Security BearerAuth
// @Router /estimates/{id} [put]
func (h *EstimateHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.EstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	estimate, err := h.estimateService.Update(c.Request.Context(), tenantID, estimateID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, estimate)
}

// Delete handles DELETE /api/v1/estimates/:id
// @Summary Delete an estimate
// @Tags estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Failure 409 {object} ErrorResponseBody "Invoiced estimates cannot be deleted"
// @Security BearerAuth
// @Router /estimates/{id} [delete]
func (h *EstimateHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.estimateService.Delete(c.Request.Context(), tenantID, estimateID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "estimate deleted"})
}

// MarkSent handles POST /api/v1/estimates/:id/send
// @Summary Mark an estimate as sent
// @Tags estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} Response{data=domain.Estimate} "Estimate"
// @Failure 409 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /estimates/{id}/send [post]
func (h *EstimateHandler) MarkSent(c *gin.Context) {
	h.transition(c, h.estimateService.MarkSent)
}

// Accept handles POST /api/v1/estimates/:id/accept
// @Summary Accept an estimate
// @Tags estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} Response{data=domain.Estimate} "Estimate"
// @Failure 409 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /estimates/{id}/accept [post]
func (h *EstimateHandler) Accept(c *gin.Context) {
	h.transition(c, h.estimateService.Accept)
}

// Decline handles POST /api/v1/estimates/:id/decline
// @Summary Decline an estimate
// @Tags estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} Response{data=domain.Estimate} "Estimate"
// @Failure 409 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /estimates/{id}/decline [post]
func (h *EstimateHandler) Decline(c *gin.Context) {
	h.transition(c, h.estimateService.Decline)
}

// ConvertToInvoice handles POST /api/v1/estimates/:id/convert
// @Summary Convert an accepted estimate into a draft invoice
// @Tags estimates
// @Accept json
// @Produce json
// @Param id path string true "Estimate ID"
// @Param request body ConvertEstimateRequest false "Conversion options"
// @Success 201 {object} Response{data=domain.Invoice} "Created invoice"
// @Failure 409 {object} ErrorResponseBody "Estimate is not accepted"
// @Security BearerAuth
// @Router /estimates/{id}/convert [post]
func (h *EstimateHandler) ConvertToInvoice(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ConvertEstimateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}

	invoice, err := h.estimateService.ConvertToInvoice(c.Request.Context(), tenantID, userID, estimateID, req.DueInDays)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, invoice)
}

// DownloadPDF handles GET /api/v1/estimates/:id/pdf
// @Summary Download an estimate as PDF
// @Tags estimates
// @Produce application/pdf
// @Param id path string true "Estimate ID"
// @Success 200 {file} binary "PDF document"
// @Security BearerAuth
// @Router /estimates/{id}/pdf [get]
func (h *EstimateHandler) DownloadPDF(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	pdfBytes, err := h.estimateService.RenderPDF(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		HandleError(c, err)
		return
	}

	estimate, err := h.estimateService.GetByID(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.SanitizeFilename(estimate.Number) + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// transition runs one of the status transition service calls and writes the
// shared response shape.
func (h *EstimateHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, estimateID uuid.UUID) (*domain.Estimate, error)) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	estimate, err := fn(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, estimate)
}
