package usecase

import (
	"context"
	"fmt"
	"strings"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const categoriesCacheKey = "catalog:categories"

// CatalogUsecase serves the product catalog. Listings are cached in a cache
// owned by the catalog; any mutation flushes it.
type CatalogUsecase struct {
	repo   domain.ProductRepository
	cache  cache.Store
	images domain.ImageStore
	cfg    *config.Config
}

// NewCatalogUsecase accepts a nil images store, in which case deleted
// products leave their uploaded images in place.
func NewCatalogUsecase(repo domain.ProductRepository, cache cache.Store, images domain.ImageStore, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:   repo,
		cache:  cache,
		images: images,
		cfg:    cfg,
	}
}

func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.CategorySlug = strings.ToLower(strings.TrimSpace(filter.CategorySlug))
	filter.Query = strings.TrimSpace(filter.Query)

	key := fmt.Sprintf("catalog:list:%s:%s:%s:%s:%s", filter.CategorySlug, strings.ToLower(filter.Query),
		priceBound(filter.MinPrice), priceBound(filter.MaxPrice), filter.Sort)
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.Product), nil
	}

	products, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	uc.cache.Set(key, products, uc.cfg.CacheCatalogTTL)
	return products, nil
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *CatalogUsecase) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	if val, found := uc.cache.Get(categoriesCacheKey); found {
		return val.([]domain.CategoryCount), nil
	}

	cats, err := uc.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	uc.cache.Set(categoriesCacheKey, cats, uc.cfg.CacheCatalogTTL)
	return cats, nil
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, product *domain.Product) error {
	normalizeProduct(product)
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return err
	}
	uc.invalidate()
	logger.WithContext(ctx).Info().Int("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	return nil
}

func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, id int, update domain.ProductUpdate) (*domain.Product, error) {
	if err := validateUpdate(update); err != nil {
		return nil, err
	}
	product, err := uc.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	uc.invalidate()
	return product, nil
}

// DeleteProduct removes the product and, when it points at an uploaded
// image, the image too. Image cleanup failures are only logged.
func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id int) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate()

	if uc.images != nil && product.Image != "" {
		if err := uc.images.DeleteImage(ctx, product.Image); err != nil {
			logger.WithContext(ctx).Debug().Err(err).Int("product_id", id).Msg("Product image not removed")
		}
	}
	return nil
}

// ReplaceProducts swaps the whole catalog. Ids must be positive and unique.
func (uc *CatalogUsecase) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	seen := make(map[int]bool, len(products))
	for i := range products {
		p := &products[i]
		normalizeProduct(p)
		if p.ID <= 0 || seen[p.ID] {
			return fmt.Errorf("%w: id %d is missing or duplicated", domain.ErrInvalidProduct, p.ID)
		}
		seen[p.ID] = true
		if err := validateProduct(p); err != nil {
			return err
		}
	}
	if err := uc.repo.ReplaceAll(ctx, products); err != nil {
		return err
	}
	uc.invalidate()
	logger.WithContext(ctx).Info().Int("count", len(products)).Msg("Catalog replaced")
	return nil
}

func (uc *CatalogUsecase) invalidate() {
	uc.cache.Flush()
}

func normalizeProduct(p *domain.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)
	p.Image = strings.TrimSpace(p.Image)
}

func validateProduct(p *domain.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	case p.Category == "" || utils.GenerateSlug(p.Category) == "":
		return fmt.Errorf("%w: category is required", domain.ErrInvalidProduct)
	case !p.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidProduct)
	case p.OriginalPrice.IsNegative():
		return fmt.Errorf("%w: original price must not be negative", domain.ErrInvalidProduct)
	}
	return nil
}

func validateUpdate(u domain.ProductUpdate) error {
	switch {
	case u.Name != nil && strings.TrimSpace(*u.Name) == "":
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidProduct)
	case u.Category != nil && utils.GenerateSlug(*u.Category) == "":
		return fmt.Errorf("%w: category must not be empty", domain.ErrInvalidProduct)
	case u.Price != nil && !u.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidProduct)
	case u.OriginalPrice != nil && u.OriginalPrice.IsNegative():
		return fmt.Errorf("%w: original price must not be negative", domain.ErrInvalidProduct)
	}
	return nil
}

func priceBound(p *decimal.Decimal) string {
	if p == nil {
		return "*"
	}
	return p.String()
}
