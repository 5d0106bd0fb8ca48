package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// --- Order Entities ---

// Order is the serialized record handed to an OrderSink. It is never stored.
type Order struct {
	ID          string          `json:"id"`
	Variant     CheckoutVariant `json:"variant"`
	Customer    Customer        `json:"customer"`
	Delivery    Delivery        `json:"delivery"`
	Items       []OrderLine     `json:"items"`
	Currency    string          `json:"currency"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Notes       string          `json:"notes,omitempty"`
	Payment     *MaskedPayment  `json:"payment,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// MaskedPayment is the only part of the card that leaves the checkout.
type MaskedPayment struct {
	CardName string `json:"cardName"`
	Last4    string `json:"last4"`
	Expiry   string `json:"expiry"`
}

type Confirmation struct {
	OrderID   string `json:"orderId"`
	Channel   string `json:"channel"`
	Reference string `json:"reference,omitempty"`
	Link      string `json:"link,omitempty"`
}

// --- Interfaces ---

// OrderSink receives a finalized order. Implementations own their timeout and
// retry policy; callers treat Submit as a single call that succeeds or fails.
type OrderSink interface {
	Channel() string
	Submit(ctx context.Context, order *Order) (*Confirmation, error)
}
