package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/export"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/service"
)

// exportBatchSize is the page size used when streaming exports.
const exportBatchSize = 500

// RecordPaymentRequest is the body for manually recording a payment.
type RecordPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	ReceivedAt *time.Time      `json:"received_at"`
}

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	clientService  service.ClientService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, clientService service.ClientService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, clientService: clientService}
}

// Create handles POST /api/v1/invoices
// @Summary Create a draft invoice
// @Description Validates the form, computes totals, reserves the next invoice number, and stores the invoice as a draft.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body service.InvoiceInput true "Invoice payload"
// @Success 201 {object} Response{data=domain.Invoice} "Created invoice"
// @Failure 400 {object} ErrorResponseBody "Validation failed"
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, invoice)
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param status query string false "Filter by status (draft, sent, paid, overdue, cancelled)"
// @Param client_id query string false "Filter by client ID"
// @Param search query string false "Match against invoice number or notes"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Invoice} "Invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter := port.InvoiceFilter{
		Status: domain.InvoiceStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid client_id query parameter")
			return
		}
		filter.ClientID = clientID
	}

	offset, limit := parsePagination(c)
	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// Update handles PUT /api/v1/invoices/:id
// @Summary Update a draft invoice
// @Description Re-validates the form and recomputes all totals. Only draft invoices can be edited.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body service.InvoiceInput true "Invoice payload"
// @Success 200 {object} Response{data=domain.Invoice} "Updated invoice"
// @Failure 409 {object} ErrorResponseBody "Invoice is not editable"
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, invoiceID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// Delete handles DELETE /api/v1/invoices/:id
// @Summary Delete a draft invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Failure 409 {object} ErrorResponseBody "Only drafts can be deleted"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// Send handles POST /api/v1/invoices/:id/send
// @Summary Send an invoice to its client
// @Description Emails the invoice with a payment link. Resending a sent or overdue invoice is allowed.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} Response{data=domain.Invoice} "Sent invoice"
// @Failure 409 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Send(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// Cancel handles POST /api/v1/invoices/:id/cancel
// @Summary Cancel an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} Response{data=domain.Invoice} "Cancelled invoice"
// @Failure 409 {object} ErrorResponseBody "Invoice is already paid"
// @Security BearerAuth
// @Router /invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// RecordPayment handles POST /api/v1/invoices/:id/payments
// @Summary Record a manual payment against an invoice
// @Description Records an out-of-band payment (bank transfer, cash) and updates the invoice balance.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body RecordPaymentRequest true "Payment payload"
// @Success 200 {object} Response{data=domain.Invoice} "Updated invoice"
// @Failure 409 {object} ErrorResponseBody "Invoice cannot accept payments"
// @Security BearerAuth
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	invoice, err := h.invoiceService.RecordManualPayment(c.Request.Context(), tenantID, invoiceID, req.Amount, receivedAt)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// DownloadPDF handles GET /api/v1/invoices/:id/pdf
// @Summary Download an invoice as PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary "PDF document"
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	pdfBytes, err := h.invoiceService.RenderPDF(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.SanitizeFilename(invoice.Number) + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ExportCSV handles GET /api/v1/invoices/export
// @Summary Export invoices as CSV
// @Description Streams all invoices matching the filter as a UTF-8 CSV with a BOM for Excel.
// @Tags invoices
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {file} binary "CSV document"
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	clientNames, err := h.clientNames(c, tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("invoices", "csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Writer.WriteHeader(http.StatusOK)
	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}

	w := export.NewInvoiceWriter(c.Writer, clientNames)
	if err := w.WriteHeader(); err != nil {
		return
	}

	filter := port.InvoiceFilter{Status: domain.InvoiceStatus(c.Query("status"))}
	for offset := 0; ; offset += exportBatchSize {
		invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter, offset, exportBatchSize)
		if err != nil {
			return
		}
		if err := w.WriteInvoices(invoices); err != nil {
			return
		}
		if offset+len(invoices) >= total || len(invoices) == 0 {
			break
		}
	}
	w.Flush()
}

// clientNames builds a client ID to display name map for CSV rows.
func (h *InvoiceHandler) clientNames(c *gin.Context, tenantID uuid.UUID) (map[string]string, error) {
	names := make(map[string]string)
	for offset := 0; ; offset += 100 {
		clients, total, err := h.clientService.List(c.Request.Context(), tenantID, "", offset, 100)
		if err != nil {
			return nil, err
		}
		for i := range clients {
			names[clients[i].ID.String()] = clients[i].Name
		}
		if offset+len(clients) >= total || len(clients) == 0 {
			break
		}
	}
	return names, nil
}
