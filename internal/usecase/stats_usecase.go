package usecase

import (
	"context"
	"fmt"

	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// StatsUsecase builds the admin dashboard from the live catalog and the
// process-local session and checkout counters. Nothing is persisted.
type StatsUsecase struct {
	products domain.ProductRepository
	sessions *SessionUsecase
	checkout *CheckoutUsecase
	currency string
}

func NewStatsUsecase(products domain.ProductRepository, sessions *SessionUsecase, checkout *CheckoutUsecase, currency string) *StatsUsecase {
	return &StatsUsecase{
		products: products,
		sessions: sessions,
		checkout: checkout,
		currency: currency,
	}
}

func (uc *StatsUsecase) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	products, err := uc.products.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	cats, err := uc.products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	uc.sessions.Sweep()
	stats := &domain.DashboardStats{
		Currency:               uc.currency,
		TotalProducts:          len(products),
		Categories:             cats,
		CatalogValue:           decimal.Zero,
		AverageDiscountPercent: AverageDiscountPercent(products),
		ActiveSessions:         uc.sessions.Count(),
		CompletedCheckouts:     uc.checkout.Completed(),
		FailedSubmissions:      uc.checkout.Failed(),
	}
	for _, p := range products {
		stats.CatalogValue = stats.CatalogValue.Add(p.Price)
	}
	return stats, nil
}

// AverageDiscountPercent averages (original - price) / original over the
// products that are actually discounted, rounded to one decimal place.
func AverageDiscountPercent(products []domain.Product) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	sum := decimal.Zero
	n := 0
	for _, p := range products {
		if !p.OriginalPrice.GreaterThan(p.Price) {
			continue
		}
		sum = sum.Add(p.OriginalPrice.Sub(p.Price).Div(p.OriginalPrice).Mul(hundred))
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(1)
}
