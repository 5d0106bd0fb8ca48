// Package sink holds the order sinks a checkout can hand a finished order to.
package sink

import (
	"fmt"
	"net/http"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
)

// FromConfig picks the sink for the deployment's checkout variant. The card
// variant falls back to the simulated provider when no payment API URL is
// configured.
func FromConfig(cfg *config.Config, storeName string) (domain.OrderSink, error) {
	switch cfg.CheckoutVariant {
	case domain.VariantCard:
		if cfg.PaymentAPIURL == "" {
			return NewSimulatedPaymentSink(cfg.SimulatedPaymentDelay), nil
		}
		return NewPaymentAPISink(PaymentAPIConfig{
			URL:      cfg.PaymentAPIURL,
			APIKey:   cfg.PaymentAPIKey,
			Timeout:  cfg.PaymentAPITimeout,
			Attempts: cfg.PaymentAPIRetries,
		}, &http.Client{}), nil
	case domain.VariantWhatsApp:
		return NewWhatsAppSink(cfg.WhatsAppNumber, storeName), nil
	default:
		return nil, fmt.Errorf("no order sink for checkout variant %q", cfg.CheckoutVariant)
	}
}
