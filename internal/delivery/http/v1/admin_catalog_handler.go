package v1

import (
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

// AdminCatalogHandler manages the in-memory catalog. It is mounted without
// authentication.
type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogUC.ListProducts(r.Context(), domain.ProductFilter{})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, products)
}

// CreateProduct ignores any id in the body; the next free id is assigned.
func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := utils.DecodeJSON(r, &product); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	product.ID = 0

	if err := h.catalogUC.CreateProduct(r.Context(), &product); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusCreated, product)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var update domain.ProductUpdate
	if err := utils.DecodeJSON(r, &update); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	product, err := h.catalogUC.UpdateProduct(r.Context(), id, update)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, product)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.catalogUC.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplaceProducts swaps the whole catalog for the products in the body.
func (h *AdminCatalogHandler) ReplaceProducts(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := utils.DecodeJSON(r, &products); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.catalogUC.ReplaceProducts(r.Context(), products); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, products)
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := utils.ParsePositiveID(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "Invalid product ID")
		return 0, false
	}
	return id, true
}
