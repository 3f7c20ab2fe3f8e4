package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/store"
	"github.com/dukerupert/officecrm/internal/websocket"
)

type ProposalHandler struct {
	proposals *store.ProposalStore
	deals     *store.DealStore
	hub       websocket.Broadcaster
	logger    *slog.Logger
	now       func() time.Time
}

func NewProposalHandler(ps *store.ProposalStore, ds *store.DealStore, hub websocket.Broadcaster, logger *slog.Logger) *ProposalHandler {
	return &ProposalHandler{proposals: ps, deals: ds, hub: hub, logger: logger, now: time.Now}
}

type proposalRequest struct {
	Title      *string    `json:"title"`
	Amount     flexNumber `json:"amount"`
	IssueDate  *string    `json:"issueDate"`
	ValidUntil *string    `json:"validUntil"`
}

func (h *ProposalHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	rows, err := h.proposals.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("list proposals", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "failed to list proposals")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	dealID := r.PathValue("id")
	deal, err := h.deals.GetByID(r.Context(), dealID)
	if err != nil {
		h.logger.Error("get deal", "error", err, "deal_id", dealID)
		writeError(w, http.StatusInternalServerError, "failed to create proposal")
		return
	}
	if deal == nil {
		writeError(w, http.StatusNotFound, "deal not found")
		return
	}

	var req proposalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p := model.Proposal{
		DealID:      dealID,
		Title:       deal.Title,
		AmountCents: toCents(float64(req.Amount)),
		IssueDate:   h.now().UTC(),
	}
	if t := optString(req.Title); t != nil {
		p.Title = *t
	}
	if s := optString(req.IssueDate); s != nil {
		t, err := parseFlexibleTime(*s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "issueDate must be a date")
			return
		}
		p.IssueDate = t
	}
	if s := optString(req.ValidUntil); s != nil {
		t, err := parseFlexibleTime(*s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validUntil must be a date")
			return
		}
		p.ValidUntil = &t
	}

	if err := h.proposals.Create(r.Context(), &p); err != nil {
		h.logger.Error("create proposal", "error", err, "deal_id", dealID)
		writeError(w, http.StatusInternalServerError, "failed to create proposal")
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityProposal, "created", p.ID, nil))
	writeJSON(w, http.StatusCreated, p)
}

// UpdateStatus moves a proposal to SENT, ACCEPTED, REJECTED or EXPIRED.
func (h *ProposalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "status is required"})
		return
	}
	status, ok := model.ParseProposalTransition(req.Status)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid status"})
		return
	}

	p, err := h.proposals.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.logger.Error("update proposal status", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "update failed"})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityProposal, "updated", id, nil))
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        p.ID,
		"status":    p.Status,
		"updatedAt": p.UpdatedAt,
	})
}
