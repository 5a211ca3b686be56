package extract

import (
	"fmt"

	"autostock/internal/config"
	"autostock/internal/port"
)

// ProviderFactory creates an InvoiceExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.InvoiceExtractor, error)

// registry of extractor provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an InvoiceExtractor from a provider config using the
// registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.InvoiceExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
