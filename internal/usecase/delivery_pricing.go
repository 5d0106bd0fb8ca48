package usecase

import (
	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// DeliveryPricing is the single parameterized delivery rule of a deployment:
// a flat Fee below Threshold, free at or above it. TaxRate is a fraction
// (0.08 for 8%) applied to the subtotal.
type DeliveryPricing struct {
	Currency  string
	Threshold decimal.Decimal
	Fee       decimal.Decimal
	TaxRate   decimal.Decimal
}

func (p DeliveryPricing) DeliveryCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.Threshold) {
		return decimal.Zero
	}
	return p.Fee
}

func (p DeliveryPricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	if p.TaxRate.IsZero() {
		return decimal.Zero
	}
	return subtotal.Mul(p.TaxRate).Round(2)
}

// AmountToFreeDelivery is how much more the subtotal needs before the fee is
// waived. Zero once the threshold is reached.
func (p DeliveryPricing) AmountToFreeDelivery(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.Threshold) {
		return decimal.Zero
	}
	return p.Threshold.Sub(subtotal)
}

func (p DeliveryPricing) Quote(subtotal decimal.Decimal) domain.PriceBreakdown {
	fee := p.DeliveryCost(subtotal)
	tax := p.Tax(subtotal)
	return domain.PriceBreakdown{
		Currency:             p.Currency,
		Subtotal:             subtotal,
		DeliveryFee:          fee,
		Tax:                  tax,
		Total:                subtotal.Add(fee).Add(tax),
		AmountToFreeDelivery: p.AmountToFreeDelivery(subtotal),
	}
}
