package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: uc}
}

type addItemReq struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type updateQuantityReq struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartUC.GetCart(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.ProductID <= 0 {
		writeBadRequest(w, "productId is required")
		return
	}

	cart, err := h.cartUC.AddItem(r.Context(), middleware.SessionID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, cart)
}

// UpdateItem sets an absolute quantity. Zero or a negative value removes the
// item, matching the cart drawer's minus button.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Quantity == nil {
		writeBadRequest(w, "quantity is required")
		return
	}

	cart, err := h.cartUC.UpdateQuantity(r.Context(), middleware.SessionID(r.Context()), r.PathValue("itemId"), *req.Quantity)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartUC.RemoveItem(r.Context(), middleware.SessionID(r.Context()), r.PathValue("itemId"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartUC.Clear(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, cart)
}

// Visibility returns a handler for one of the open, close and toggle actions.
func (h *CartHandler) Visibility(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := h.cartUC.SetVisibility(r.Context(), middleware.SessionID(r.Context()), action)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeOK(w, http.StatusOK, cart)
	}
}
