package http

import (
	"net/http"
	"strconv"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/service"
	"github.com/hsshealth/hss/pkg/httpx"
)

// DashboardHandler serves tenant-scoped read queries. The tenant always
// comes from the session token, never from the request.
type DashboardHandler struct {
	Dashboard *service.DashboardService
	Errors    ErrorWriter
}

// HandleStats handles GET /dashboard/stats
//
//	@Summary		Dashboard counts
//	@Description	Aggregate staff, shift, compliance and alert counts for the tenant in the session token.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.DashboardStatsResponse	"Counts"
//	@Failure		400	{object}	authsdk.ErrorResponse			"Token carries no tenant"
//	@Failure		401	{object}	authsdk.ErrorResponse			"Invalid or missing session token"
//	@Failure		503	{object}	authsdk.ErrorResponse			"Tenant database unavailable"
//	@Router			/dashboard/stats [get].
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats(r.Context(), httpx.Tenant(r.Context()))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toStats(stats))
}

// HandleAlerts handles GET /dashboard/alerts
//
//	@Summary		Recent alerts
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int						false	"Page size (default 20, max 100)"
//	@Success		200		{array}		authsdk.AlertItem		"Newest first"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		503		{object}	authsdk.ErrorResponse	"Tenant database unavailable"
//	@Router			/dashboard/alerts [get].
func (h *DashboardHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	alerts, err := h.Dashboard.Alerts(r.Context(), httpx.Tenant(r.Context()), limit)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAlertItems(alerts))
}

// HandleShifts handles GET /dashboard/shifts
//
//	@Summary		Upcoming shifts
//	@Description	In-progress and upcoming shifts ordered by start, with the staff member's name.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int						false	"Page size (default 20, max 100)"
//	@Success		200		{array}		authsdk.ShiftItem		"Shifts"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		503		{object}	authsdk.ErrorResponse	"Tenant database unavailable"
//	@Router			/dashboard/shifts [get].
func (h *DashboardHandler) HandleShifts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	shifts, err := h.Dashboard.Shifts(r.Context(), httpx.Tenant(r.Context()), limit)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toShiftItems(shifts))
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Fields: map[string]string{"limit": "must be an integer"}}
	}
	return n, nil
}
