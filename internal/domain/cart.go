package domain

import "github.com/shopspring/decimal"

// --- Cart Entities ---

type LineItem struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"imageRef"`
	Category  string          `json:"category"`
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// CartState is a read-only snapshot of a cart. TotalItems and TotalPrice are
// derived when the snapshot is taken.
type CartState struct {
	Items      []LineItem      `json:"items"`
	Open       bool            `json:"open"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}
