package v1

import (
	"fmt"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"

	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalogUC.Categories(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, cats)
}

// ListProducts supports ?category=<slug>, ?q=<text>, ?minPrice=&maxPrice=
// (inclusive) and ?sort=price_asc|price_desc|name.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sort := query.Get("sort")
	if sort != "" && sort != domain.SortPriceAsc && sort != domain.SortPriceDesc && sort != domain.SortName {
		writeBadRequest(w, "Unknown sort key")
		return
	}

	minPrice, err := priceParam(query.Get("minPrice"))
	if err != nil {
		writeBadRequest(w, "Invalid minPrice")
		return
	}
	maxPrice, err := priceParam(query.Get("maxPrice"))
	if err != nil {
		writeBadRequest(w, "Invalid maxPrice")
		return
	}
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		writeBadRequest(w, "minPrice must not exceed maxPrice")
		return
	}

	products, err := h.catalogUC.ListProducts(r.Context(), domain.ProductFilter{
		CategorySlug: query.Get("category"),
		Query:        query.Get("q"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Sort:         sort,
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, product)
}

// priceParam parses an optional non-negative price bound.
func priceParam(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	p, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	if p.IsNegative() {
		return nil, fmt.Errorf("price bound %s is negative", raw)
	}
	return &p, nil
}
