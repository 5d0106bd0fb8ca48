package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Image         string          `json:"image"`
	Category      string          `json:"category"`
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         *string          `json:"image,omitempty"`
	Category      *string          `json:"category,omitempty"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

type ProductFilter struct {
	CategorySlug string
	Query        string
	// Inclusive price bounds; nil means unbounded.
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string // price_asc, price_desc, name; empty keeps catalog order
}

// --- Interfaces ---

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, id int, update ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id int) error
	ReplaceAll(ctx context.Context, products []Product) error
	Categories(ctx context.Context) ([]CategoryCount, error)
}

// ImageStore keeps uploaded product images and serves them from a public URL.
type ImageStore interface {
	UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
	DeleteImage(ctx context.Context, fileURL string) error
}
