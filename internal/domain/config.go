package domain

import "github.com/shopspring/decimal"

// StorefrontSettings is the public, read-only view of the deployment's
// pricing and checkout configuration.
type StorefrontSettings struct {
	Currency              string          `json:"currency"`
	FreeDeliveryThreshold decimal.Decimal `json:"freeDeliveryThreshold"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	TaxRate               decimal.Decimal `json:"taxRate"`
	CheckoutVariant       CheckoutVariant `json:"checkoutVariant"`
	Steps                 []StepKind      `json:"steps"`
	MaxCartQuantity       int             `json:"maxCartQuantity"`
}

type DashboardStats struct {
	Currency               string          `json:"currency"`
	TotalProducts          int             `json:"totalProducts"`
	Categories             []CategoryCount `json:"categories"`
	CatalogValue           decimal.Decimal `json:"catalogValue"`
	AverageDiscountPercent decimal.Decimal `json:"averageDiscountPercent"`
	ActiveSessions         int             `json:"activeSessions"`
	CompletedCheckouts     int64           `json:"completedCheckouts"`
	FailedSubmissions      int64           `json:"failedSubmissions"`
}
