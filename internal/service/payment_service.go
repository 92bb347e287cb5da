package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/money"
	"sleekinvoices/internal/port"
)

// CheckoutInput is the DTO for starting a hosted payment.
type CheckoutInput struct {
	InvoiceID uuid.UUID            `json:"invoice_id" binding:"required"`
	Method    domain.PaymentMethod `json:"method" binding:"required"`
}

// PaymentService defines the payment collection contract.
type PaymentService interface {
	CreateCheckout(ctx context.Context, tenantID uuid.UUID, input CheckoutInput) (*port.CheckoutSession, error)
	ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.Payment, error)
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Payment, int, error)
	// HandleCardWebhook and HandleCryptoWebhook verify the raw gateway
	// callback and settle the referenced payment.
	HandleCardWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	HandleCryptoWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

type paymentService struct {
	paymentRepo   port.PaymentRepository
	invoiceRepo   port.InvoiceRepository
	clientRepo    port.ClientRepository
	cardGateway   port.PaymentGateway
	cryptoGateway port.CryptoGateway
	emailSender   port.EmailSender
	successURL    string
	cancelURL     string
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(
	paymentRepo port.PaymentRepository,
	invoiceRepo port.InvoiceRepository,
	clientRepo port.ClientRepository,
	cardGateway port.PaymentGateway,
	cryptoGateway port.CryptoGateway,
	emailSender port.EmailSender,
	successURL, cancelURL string,
) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		cardGateway:   cardGateway,
		cryptoGateway: cryptoGateway,
		emailSender:   emailSender,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, tenantID uuid.UUID, input CheckoutInput) (*port.CheckoutSession, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, domain.ErrInvoiceAlreadyPaid
	}
	if invoice.Status == domain.InvoiceStatusDraft || invoice.Status == domain.InvoiceStatusCancelled {
		return nil, domain.ErrInvalidTransition
	}

	balance := invoice.BalanceDue()
	if !balance.IsPositive() {
		return nil, domain.ErrInvoiceAlreadyPaid
	}

	checkout := port.CheckoutInput{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.Number,
		Description:   fmt.Sprintf("Invoice %s", invoice.Number),
		Currency:      invoice.Currency,
		Amount:        balance,
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
	}

	var session *port.CheckoutSession
	switch input.Method {
	case domain.PaymentMethodCard:
		session, err = s.cardGateway.CreateCheckout(ctx, checkout)
	case domain.PaymentMethodCrypto:
		session, err = s.cryptoGateway.CreateCharge(ctx, checkout)
	default:
		return nil, &ValidationError{Fields: map[string]string{"method": "method must be card or crypto"}}
	}
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	payment := &domain.Payment{
		TenantID:   tenantID,
		InvoiceID:  invoice.ID,
		Method:     input.Method,
		Status:     domain.PaymentStatusPending,
		Amount:     balance,
		Currency:   invoice.Currency,
		GatewayRef: session.ID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("recording pending payment: %w", err)
	}

	log.Printf("paymentService.CreateCheckout: session %s (%s) created for invoice %s",
		session.ID, input.Method, invoice.Number)
	return session, nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.Payment, error) {
	return s.paymentRepo.ListByInvoice(ctx, tenantID, invoiceID)
}

func (s *paymentService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Payment, int, error) {
	return s.paymentRepo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *paymentService) HandleCardWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.cardGateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}
	return s.settle(ctx, event)
}

func (s *paymentService) HandleCryptoWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.cryptoGateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}
	return s.settle(ctx, event)
}

// settle resolves a verified gateway event against the pending payment.
// Events for already-settled payments are ignored so gateway retries stay
// idempotent.
func (s *paymentService) settle(ctx context.Context, event *port.WebhookEvent) error {
	payment, err := s.paymentRepo.GetByGatewayRef(ctx, event.GatewayRef)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			log.Printf("paymentService.settle: no payment for gateway ref %s, ignoring", event.GatewayRef)
			return nil
		}
		return err
	}
	if payment.Status != domain.PaymentStatusPending {
		log.Printf("paymentService.settle: payment %s already %s, ignoring duplicate event", payment.ID, payment.Status)
		return nil
	}

	if !event.Succeeded {
		payment.Status = domain.PaymentStatusFailed
		payment.FailureNote = event.FailureNote
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}
		log.Printf("paymentService.settle: payment %s failed: %s", payment.ID, event.FailureNote)
		return nil
	}

	now := time.Now().UTC()
	payment.Status = domain.PaymentStatusCompleted
	// Gateways may settle a different amount than requested (partial
	// payments, currency conversion); trust the event.
	if event.Amount.IsPositive() {
		payment.Amount = event.Amount
	}
	payment.ReceivedAt = &now
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.ApplyPayment(ctx, payment.TenantID, payment.InvoiceID, payment.Amount, now)
	if err != nil {
		return fmt.Errorf("applying payment %s: %w", payment.ID, err)
	}
	log.Printf("paymentService.settle: payment %s completed, invoice %s balance %s",
		payment.ID, invoice.Number, money.Format(invoice.BalanceDue()))

	s.sendReceipt(ctx, invoice, payment)
	return nil
}

func (s *paymentService) sendReceipt(ctx context.Context, invoice *domain.Invoice, payment *domain.Payment) {
	client, err := s.clientRepo.GetByID(ctx, invoice.TenantID, invoice.ClientID)
	if err != nil || client.Email == "" {
		return
	}
	receipt := port.ReceiptEmail{
		ToEmail:       client.Email,
		ToName:        client.Name,
		InvoiceNumber: invoice.Number,
		Currency:      payment.Currency,
		AmountPaid:    money.Format(payment.Amount),
	}
	if err := s.emailSender.SendReceiptEmail(ctx, receipt); err != nil {
		log.Printf("paymentService.sendReceipt: receipt for invoice %s failed: %v", invoice.Number, err)
	}
}
