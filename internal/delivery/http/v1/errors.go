package v1

import (
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// writeError maps usecase errors to HTTP responses. data, when not nil, is
// returned alongside the error so the client can re-render current state.
func writeError(w http.ResponseWriter, r *http.Request, err error, data interface{}) {
	resp := domain.Response{Success: false, Message: err.Error(), Data: data}

	var validationErr *domain.ValidationError
	var sinkErr *domain.SinkError
	var preconditionErr *domain.PreconditionError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusUnprocessableEntity
		resp.Fields = validationErr.Fields
	case errors.As(err, &sinkErr):
		status = http.StatusBadGateway
		resp.Message = "Order could not be submitted, please try again"
	case errors.As(err, &preconditionErr),
		errors.Is(err, domain.ErrSubmitInProgress),
		errors.Is(err, domain.ErrCheckoutComplete),
		errors.Is(err, domain.ErrNotAtReview),
		errors.Is(err, domain.ErrNoNextStep):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrNoCheckout),
		errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStepNotApplicable),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrQuantityTooLarge):
		status = http.StatusBadRequest
	}

	log := logger.WithContext(r.Context())
	switch {
	case status == http.StatusBadGateway:
		log.Warn().Err(err).Msg("Order sink failed")
	case status >= 500:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		resp.Message = "Internal server error"
	}

	utils.WriteJSON(w, status, resp)
}

func writeOK(w http.ResponseWriter, status int, data interface{}) {
	utils.WriteJSON(w, status, domain.Response{Success: true, Data: data})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	utils.WriteJSON(w, http.StatusBadRequest, domain.Response{Success: false, Message: message})
}
