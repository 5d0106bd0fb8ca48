package v1

import (
	"net/http"

	"storefront-backend/internal/usecase"
)

type AdminStatsHandler struct {
	statsUC *usecase.StatsUsecase
}

func NewAdminStatsHandler(uc *usecase.StatsUsecase) *AdminStatsHandler {
	return &AdminStatsHandler{statsUC: uc}
}

// GET /api/v1/admin/stats
func (h *AdminStatsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeOK(w, http.StatusOK, stats)
}
