package handler

import (
	"net/http"

	"github.com/mtlprog/bodyshop/internal/handler/dto"
	"github.com/mtlprog/bodyshop/internal/middleware"
)

// handleDashboard returns the SLA compliance report over the staff member's
// visible tasks.
// @Summary Get SLA dashboard
// @Description Aggregate SLA rates, overdue count and per-stage load over a snapshot of tasks
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := middleware.GetStaffFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	report, err := h.taskService.Dashboard(ctx, staff)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute dashboard")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToDashboardResponse(report))
}
