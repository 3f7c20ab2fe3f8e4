package handler

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/store"
)

type DealHandler struct {
	deals   *store.DealStore
	clients *store.ClientStore
	logger  *slog.Logger
}

func NewDealHandler(ds *store.DealStore, cs *store.ClientStore, logger *slog.Logger) *DealHandler {
	return &DealHandler{deals: ds, clients: cs, logger: logger}
}

type dealRequest struct {
	Title          *string     `json:"title"`
	LeadID         *string     `json:"leadId"`
	Value          flexNumber  `json:"value"`
	Stage          string      `json:"stage"`
	Probability    *flexNumber `json:"probability"`
	DecisionMakers stringList  `json:"decisionMakers"`
	LossReason     string      `json:"lossReason"`
	LossNotes      *string     `json:"lossNotes"`
	ClosedAt       *string     `json:"closedAt"`
}

// toCents converts a dollar amount to whole cents.
func toCents(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v * 100))
}

func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	items, err := h.deals.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("list deals", "error", err, "client_id", clientID)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to load deals"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": items})
}

func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	client, err := h.clients.GetByID(r.Context(), clientID)
	if err != nil {
		h.logger.Error("get client", "error", err, "client_id", clientID)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to create deal"})
		return
	}
	if client == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Not found"})
		return
	}

	var req dealRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON"})
		return
	}

	d := model.Deal{
		ClientID:       clientID,
		LeadID:         optString(req.LeadID),
		Title:          "Untitled",
		ValueCents:     toCents(float64(req.Value)),
		Stage:          model.ParseDealStage(req.Stage),
		DecisionMakers: []string(req.DecisionMakers),
		LossReason:     model.ParseLossReason(req.LossReason),
		LossNotes:      optString(req.LossNotes),
	}
	if t := optString(req.Title); t != nil {
		d.Title = *t
	}
	if req.Probability != nil {
		p := int(*req.Probability)
		d.Probability = &p
	}
	if s := optString(req.ClosedAt); s != nil {
		t, err := parseFlexibleTime(*s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "closedAt must be a date"})
			return
		}
		d.ClosedAt = &t
	}

	if err := h.deals.Create(r.Context(), &d); err != nil {
		h.logger.Error("create deal", "error", err, "client_id", clientID)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to create deal"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "item": d})
}
