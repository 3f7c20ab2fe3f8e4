package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/store"
)

type LeadHandler struct {
	leads   *store.LeadStore
	clients *store.ClientStore
	logger  *slog.Logger
}

func NewLeadHandler(ls *store.LeadStore, cs *store.ClientStore, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{leads: ls, clients: cs, logger: logger}
}

type leadRequest struct {
	Name            *string     `json:"name"`
	Company         *string     `json:"company"`
	Email           *string     `json:"email"`
	Phone           *string     `json:"phone"`
	Source          *string     `json:"source"`
	Status          string      `json:"status"`
	Score           *flexNumber `json:"score"`
	Needs           *string     `json:"needs"`
	BudgetTimeframe *string     `json:"budgetTimeframe"`
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	items, err := h.leads.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("list leads", "error", err, "client_id", clientID)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to load leads"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": items})
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	client, err := h.clients.GetByID(r.Context(), clientID)
	if err != nil {
		h.logger.Error("get client", "error", err, "client_id", clientID)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to create lead"})
		return
	}
	if client == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Not found"})
		return
	}

	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON"})
		return
	}

	l := model.Lead{
		ClientID:        clientID,
		Company:         optString(req.Company),
		Email:           optString(req.Email),
		Phone:           optString(req.Phone),
		Source:          optString(req.Source),
		Status:          model.ParseLeadStatus(req.Status),
		Needs:           optString(req.Needs),
		BudgetTimeframe: optString(req.BudgetTimeframe),
	}
	if n := optString(req.Name); n != nil {
		l.Name = *n
	}
	if req.Score != nil {
		score := int(*req.Score)
		l.Score = &score
	}

	if err := h.leads.Create(r.Context(), &l); err != nil {
		h.logger.Error("create lead", "error", err, "client_id", clientID)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to create lead"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "item": l})
}
