package assist

import (
	"fmt"

	"sleekinvoices/internal/config"
	"sleekinvoices/internal/port"
)

// ProviderFactory is a function that creates an InvoiceExtractor from a provider config.
type ProviderFactory func(cfg *config.AssistProviderConfig) (port.InvoiceExtractor, error)

// registry of extraction provider factories, populated explicitly via
// RegisterProvider at wiring time.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an InvoiceExtractor from a provider config using the
// registered factory.
func NewExtractor(cfg *config.AssistProviderConfig) (port.InvoiceExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown assist provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
