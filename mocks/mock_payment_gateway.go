package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sleekinvoices/internal/port"
)

// MockPaymentGateway is a mock implementation of port.PaymentGateway.
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckout(ctx context.Context, input port.CheckoutInput) (*port.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhook(payload []byte, signatureHeader string) (*port.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.WebhookEvent), args.Error(1)
}

// MockCryptoGateway is a mock implementation of port.CryptoGateway.
type MockCryptoGateway struct {
	mock.Mock
}

func (m *MockCryptoGateway) CreateCharge(ctx context.Context, input port.CheckoutInput) (*port.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CheckoutSession), args.Error(1)
}

func (m *MockCryptoGateway) VerifyWebhook(payload []byte, signatureHeader string) (*port.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.WebhookEvent), args.Error(1)
}
