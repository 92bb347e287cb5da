package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sleekinvoices/internal/service"
)

// AssistHandler handles AI invoice drafting endpoints.
type AssistHandler struct {
	assistService service.AssistService
}

// NewAssistHandler creates a new AssistHandler.
func NewAssistHandler(assistService service.AssistService) *AssistHandler {
	return &AssistHandler{assistService: assistService}
}

// DraftInvoice handles POST /api/v1/assist/draft
// @Summary Draft an invoice from a plain-text description
// @Description Extracts client, line items, discount, and tax from a free-form description and returns a pre-filled invoice form with computed totals. The draft is not persisted.
// @Tags assist
// @Accept json
// @Produce json
// @Param request body service.AssistInput true "Description payload"
// @Success 200 {object} Response{data=service.AssistDraft} "Invoice draft"
// @Failure 503 {object} ErrorResponseBody "All extraction providers unavailable"
// @Security BearerAuth
// @Router /assist/draft [post]
func (h *AssistHandler) DraftInvoice(c *gin.Context) {
	if h.assistService == nil {
		RespondError(c, http.StatusNotFound, "NOT_FOUND", "invoice drafting is not enabled")
		return
	}

	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.AssistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	draft, err := h.assistService.DraftInvoice(c.Request.Context(), tenantID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}
