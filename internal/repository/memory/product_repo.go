package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/utils"
)

type productRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewProductRepository returns a process-local catalog holding a copy of
// seed. Products keep their insertion order.
func NewProductRepository(seed []domain.Product) domain.ProductRepository {
	products := make([]domain.Product, len(seed))
	copy(products, seed)
	return &productRepository{products: products}
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.CategorySlug != "" && utils.GenerateSlug(p.Category) != filter.CategorySlug {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}

	switch filter.Sort {
	case domain.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case domain.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case domain.SortName:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	}
	return out, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		p := r.products[i]
		return &p, nil
	}
	return nil, domain.ErrProductNotFound
}

// Create assigns the next id (highest existing id + 1) and writes it back
// into product.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := 0
	for _, p := range r.products {
		if p.ID > next {
			next = p.ID
		}
	}
	product.ID = next + 1
	r.products = append(r.products, *product)
	return nil
}

func (r *productRepository) Update(ctx context.Context, id int, update domain.ProductUpdate) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}
	p := &r.products[i]
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.OriginalPrice != nil {
		p.OriginalPrice = *update.OriginalPrice
	}
	if update.Image != nil {
		p.Image = *update.Image
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	updated := *p
	return &updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *productRepository) ReplaceAll(ctx context.Context, products []domain.Product) error {
	replacement := make([]domain.Product, len(products))
	copy(replacement, products)

	r.mu.Lock()
	r.products = replacement
	r.mu.Unlock()
	return nil
}

// Categories counts products per category in order of first appearance.
func (r *productRepository) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.CategoryCount
	index := make(map[string]int)
	for _, p := range r.products {
		slug := utils.GenerateSlug(p.Category)
		if i, ok := index[slug]; ok {
			out[i].Count++
			continue
		}
		index[slug] = len(out)
		out = append(out, domain.CategoryCount{Name: p.Category, Slug: slug, Count: 1})
	}
	return out, nil
}

func (r *productRepository) indexOf(id int) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}
