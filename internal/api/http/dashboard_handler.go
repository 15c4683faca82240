package http

import (
	"net/http"
	"time"

	"tooltrack-backend/internal/domain"
	"tooltrack-backend/internal/service"
)

// DashboardHandler serves aggregate views for the dashboard UI
type DashboardHandler struct {
	issuances service.IssuanceService
}

func NewDashboardHandler(issuances service.IssuanceService) *DashboardHandler {
	return &DashboardHandler{issuances: issuances}
}

type overdueItem struct {
	domain.Issuance
	DaysOverdue int32 `json:"days_overdue"`
}

// OverdueIssuances handles GET /api/v1/dashboard/overdue-issuances.
// By default loans inside the notification cooldown are hidden; pass
// includeBeingProcessed=true to see the full overdue set.
func (h *DashboardHandler) OverdueIssuances(w http.ResponseWriter, r *http.Request) {
	includeBeingProcessed := r.URL.Query().Get("includeBeingProcessed") == "true"

	items, err := h.issuances.ListOverdue(r.Context(), includeBeingProcessed)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now().UTC()
	out := make([]overdueItem, 0, len(items))
	for _, iss := range items {
		var days int32
		if iss.ExpectedReturnDate != nil {
			days = int32(now.Sub(*iss.ExpectedReturnDate).Hours() / 24)
			if days < 0 {
				days = 0
			}
		}
		out = append(out, overdueItem{Issuance: iss, DaysOverdue: days})
	}

	writeJSON(w, http.StatusOK, out)
}
