package v1

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CheckoutHandler struct {
	checkoutUC    *usecase.CheckoutUsecase
	submitTimeout time.Duration
}

// NewCheckoutHandler bounds each order submission by submitTimeout. A zero
// value leaves the wait to the sink's own policy.
func NewCheckoutHandler(uc *usecase.CheckoutUsecase, submitTimeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: uc, submitTimeout: submitTimeout}
}

type notesReq struct {
	Notes string `json:"notes"`
}

func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutUC.Open(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusCreated, view)
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutUC.Get(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, view)
}

func (h *CheckoutHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.checkoutUC.Close(r.Context(), middleware.SessionID(r.Context())); err != nil {
		writeError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := utils.DecodeJSON(r, &customer); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	h.respond(w, r)(h.checkoutUC.UpdateCustomer(r.Context(), middleware.SessionID(r.Context()), customer))
}

func (h *CheckoutHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	var delivery domain.Delivery
	if err := utils.DecodeJSON(r, &delivery); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	h.respond(w, r)(h.checkoutUC.UpdateDelivery(r.Context(), middleware.SessionID(r.Context()), delivery))
}

func (h *CheckoutHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var card domain.PaymentCard
	if err := utils.DecodeJSON(r, &card); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	h.respond(w, r)(h.checkoutUC.UpdatePayment(r.Context(), middleware.SessionID(r.Context()), card))
}

func (h *CheckoutHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	h.respond(w, r)(h.checkoutUC.UpdateNotes(r.Context(), middleware.SessionID(r.Context()), req.Notes))
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.checkoutUC.Next(r.Context(), middleware.SessionID(r.Context())))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.checkoutUC.Back(r.Context(), middleware.SessionID(r.Context())))
}

// Submit detaches from the request context: a client that disconnects must
// not cancel an order the sink may already be processing.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	if h.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.submitTimeout)
		defer cancel()
	}
	h.respond(w, r)(h.checkoutUC.Submit(ctx, middleware.SessionID(r.Context())))
}

// respond writes the view on success. Errors carry the view too when one is
// available so the form can be re-rendered with what the user entered.
func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request) func(domain.CheckoutView, error) {
	return func(view domain.CheckoutView, err error) {
		if err != nil {
			var data interface{}
			if view.TotalSteps > 0 {
				data = view
			}
			writeError(w, r, err, data)
			return
		}
		writeOK(w, http.StatusOK, view)
	}
}
