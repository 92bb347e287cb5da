package mocks

import (
	"github.com/stretchr/testify/mock"

	"sleekinvoices/internal/domain"
)

// MockPDFRenderer is a mock implementation of service.InvoicePDFRenderer and
// service.EstimatePDFRenderer.
type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) RenderInvoice(invoice *domain.Invoice, client *domain.Client, tpl *domain.Template) ([]byte, error) {
	args := m.Called(invoice, client, tpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPDFRenderer) RenderEstimate(estimate *domain.Estimate, client *domain.Client, tpl *domain.Template) ([]byte, error) {
	args := m.Called(estimate, client, tpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
