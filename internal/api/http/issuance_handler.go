package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tooltrack-backend/internal/domain"
	"tooltrack-backend/internal/service"
)

// IssuanceHandler exposes the tool issuance lifecycle over HTTP
type IssuanceHandler struct {
	issuances service.IssuanceService
}

func NewIssuanceHandler(issuances service.IssuanceService) *IssuanceHandler {
	return &IssuanceHandler{issuances: issuances}
}

type checkoutRequest struct {
	ToolID               int32      `json:"tool_id"`
	TechnicianID         int32      `json:"technician_id"`
	IssueDate            *time.Time `json:"issue_date,omitempty"`
	ExpectedReturnDate   *time.Time `json:"expected_return_date,omitempty"`
	ExpectedDurationDays *int32     `json:"expected_duration_days,omitempty"`
	WorkOrderNumber      string     `json:"work_order_number,omitempty"`
	Purpose              string     `json:"purpose"`
	Notes                string     `json:"notes,omitempty"`
}

type checkinRequest struct {
	ReturnedByID   int32  `json:"returned_by_id"`
	IsDamaged      bool   `json:"is_damaged"`
	ConditionNotes string `json:"condition_notes,omitempty"`
}

type checkinResponse struct {
	Issuance *domain.Issuance `json:"issuance"`
	Return   *domain.Return   `json:"return"`
}

type markLostRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Checkout handles POST /api/v1/issuance/checkout
func (h *IssuanceHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}

	issueDate := time.Time{}
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	iss, err := h.issuances.Checkout(r.Context(), service.CheckoutRequest{
		ToolID:               req.ToolID,
		TechnicianID:         req.TechnicianID,
		IssuedByID:           userID,
		IssueDate:            issueDate,
		ExpectedReturnDate:   req.ExpectedReturnDate,
		ExpectedDurationDays: req.ExpectedDurationDays,
		WorkOrderNumber:      req.WorkOrderNumber,
		Purpose:              req.Purpose,
		Notes:                req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, iss)
}

// Checkin handles POST /api/v1/issuance/checkin/{toolId}
func (h *IssuanceHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	toolID, err := pathID(r, "toolId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}

	iss, ret, err := h.issuances.Checkin(r.Context(), service.CheckinRequest{
		ToolID:         toolID,
		ReturnedByID:   req.ReturnedByID,
		ReceivedByID:   userID,
		IsDamaged:      req.IsDamaged,
		ConditionNotes: req.ConditionNotes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkinResponse{Issuance: iss, Return: ret})
}

// MarkLost handles POST /api/v1/issuance/{id}/lost
func (h *IssuanceHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req markLostRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
			return
		}
	}

	iss, err := h.issuances.MarkLost(r.Context(), id, userID, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, iss)
}

// Get handles GET /api/v1/issuance/{id}
func (h *IssuanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	iss, err := h.issuances.GetIssuance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, iss)
}

// ListActive handles GET /api/v1/issuance/active
func (h *IssuanceHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.issuances.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListOverdue handles GET /api/v1/issuance/overdue
func (h *IssuanceHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	items, err := h.issuances.ListOverdue(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, domain.ErrValidation)
	}
	return int32(id), nil
}
