package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/handler"
	"sleekinvoices/internal/service"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{domain.ErrInvoiceNotEditable, http.StatusConflict, "INVOICE_NOT_EDITABLE"},
		{domain.ErrInvoiceAlreadyPaid, http.StatusConflict, "INVOICE_ALREADY_PAID"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrClientHasInvoices, http.StatusConflict, "CLIENT_HAS_INVOICES"},
		{domain.ErrEstimateNotAccepted, http.StatusConflict, "ESTIMATE_NOT_ACCEPTED"},
		{domain.ErrTemplateInUse, http.StatusConflict, "TEMPLATE_IN_USE"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrWebhookSignature, http.StatusUnauthorized, "INVALID_SIGNATURE"},
		{domain.ErrExtractorUnavailable, http.StatusServiceUnavailable, "ASSIST_UNAVAILABLE"},
		{errors.New("unexpected"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestMapDomainError_WrappedErrors(t *testing.T) {
	// Services wrap sentinels with context; mapping sees through the wrap.
	wrapped := errors.Join(errors.New("loading invoice"), domain.ErrInvoiceNotFound)
	status, code, _ := handler.MapDomainError(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "INVOICE_NOT_FOUND", code)
}

func TestHandleError_ValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.HandleError(c, &service.ValidationError{Fields: map[string]string{
		"line_items": "at least one line item is required",
		"tax_rate":   "tax rate must be between 0 and 100",
	}})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Len(t, body.Error.Fields, 2)
	assert.Contains(t, body.Error.Fields, "line_items")
}

func TestHandleError_DomainSentinel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.HandleError(c, domain.ErrInvoiceAlreadyPaid)

	assert.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVOICE_ALREADY_PAID", body.Error.Code)
}
