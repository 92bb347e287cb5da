package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sleekinvoices/internal/service"
)

// PaymentHandler handles payment and gateway webhook endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateCheckout handles POST /api/v1/payments/checkout
// @Summary Create a hosted checkout session for an invoice
// @Description Creates a card or crypto checkout session for the invoice's outstanding balance and records a pending payment.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body service.CheckoutInput true "Checkout payload"
// @Success 201 {object} Response{data=CheckoutResponse} "Checkout session"
// @Failure 409 {object} ErrorResponseBody "Invoice cannot accept payments"
// @Security BearerAuth
// @Router /payments/checkout [post]
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	session, err := h.paymentService.CreateCheckout(c.Request.Context(), tenantID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, gin.H{"session_id": session.ID, "checkout_url": session.URL})
}

// List handles GET /api/v1/payments
// @Summary List payments
// @Tags payments
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Payment} "Payments"
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	payments, total, err := h.paymentService.List(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, payments, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListByInvoice handles GET /api/v1/invoices/:id/payments
// @Summary List payments for an invoice
// @Tags payments
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} Response{data=[]domain.Payment} "Payments"
// @Security BearerAuth
// @Router /invoices/{id}/payments [get]
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payments)
}

// CardWebhook handles POST /webhooks/stripe
// @Summary Stripe webhook receiver
// @Description Verifies the Stripe-Signature header against the raw payload and settles the referenced payment. Always returns 200 for events that are verified but not actionable, so the gateway does not retry.
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=MessageResponse} "Processed"
// @Failure 401 {object} ErrorResponseBody "Bad signature"
// @Router /webhooks/stripe [post]
func (h *PaymentHandler) CardWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "could not read request body")
		return
	}

	if err := h.paymentService.HandleCardWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		log.Printf("paymentHandler.CardWebhook: %v", err)
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "processed"})
}

// CryptoWebhook handles POST /webhooks/coinbase
// @Summary Coinbase Commerce webhook receiver
// @Description Verifies the X-CC-Webhook-Signature header against the raw payload and settles the referenced payment.
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=MessageResponse} "Processed"
// @Failure 401 {object} ErrorResponseBody "Bad signature"
// @Router /webhooks/coinbase [post]
func (h *PaymentHandler) CryptoWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "could not read request body")
		return
	}

	if err := h.paymentService.HandleCryptoWebhook(c.Request.Context(), payload, c.GetHeader("X-CC-Webhook-Signature")); err != nil {
		log.Printf("paymentHandler.CryptoWebhook: %v", err)
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "processed"})
}
