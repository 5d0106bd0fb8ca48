package v1

import (
	"net/http"

	"storefront-backend/internal/domain"
)

// ConfigHandler exposes the deployment's pricing and checkout settings so the
// storefront can render totals and the "add X more for free delivery" hint.
type ConfigHandler struct {
	settings domain.StorefrontSettings
}

func NewConfigHandler(settings domain.StorefrontSettings) *ConfigHandler {
	return &ConfigHandler{settings: settings}
}

// GET /api/v1/config/storefront
func (h *ConfigHandler) GetStorefront(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeOK(w, http.StatusOK, h.settings)
}

// GET /api/v1/config/enums
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeOK(w, http.StatusOK, map[string]interface{}{
		"checkoutVariants": domain.CheckoutVariants,
		"sortKeys":         domain.SortKeys,
		"cartActions":      []string{domain.CartActionOpen, domain.CartActionClose, domain.CartActionToggle},
	})
}
