package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTenantInactive     = errors.New("tenant is inactive")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists for this tenant")
	ErrDuplicateSlug      = errors.New("tenant slug already exists")

	ErrClientNotFound      = errors.New("client not found")
	ErrClientHasInvoices   = errors.New("client has invoices and cannot be deleted")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrInvoiceNotEditable  = errors.New("only draft invoices can be edited")
	ErrInvoiceAlreadyPaid  = errors.New("invoice is already paid")
	ErrInvalidTransition   = errors.New("invalid invoice status transition")
	ErrEstimateNotFound    = errors.New("estimate not found")
	ErrEstimateNotAccepted = errors.New("only accepted estimates can be converted")
	ErrRecurringNotFound   = errors.New("recurring invoice not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTemplateInUse       = errors.New("template is used by invoices and cannot be deleted")

	ErrInvalidForm          = errors.New("invoice form failed validation")
	ErrExtractorUnavailable = errors.New("all invoice extraction providers failed")
	ErrWebhookSignature     = errors.New("webhook signature verification failed")
	ErrGatewayDeclined      = errors.New("payment gateway declined the request")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrUploadFailed         = errors.New("file upload to storage failed")
)
