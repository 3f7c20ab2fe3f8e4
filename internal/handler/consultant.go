package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/store"
	"github.com/dukerupert/officecrm/internal/websocket"
)

type ConsultantHandler struct {
	store  *store.ConsultantStore
	hub    websocket.Broadcaster
	logger *slog.Logger
}

func NewConsultantHandler(s *store.ConsultantStore, hub websocket.Broadcaster, logger *slog.Logger) *ConsultantHandler {
	return &ConsultantHandler{store: s, hub: hub, logger: logger}
}

type consultantRequest struct {
	Name  string  `json:"name" validate:"required"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (h *ConsultantHandler) List(w http.ResponseWriter, r *http.Request) {
	consultants, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("list consultants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list consultants")
		return
	}
	if consultants == nil {
		consultants = []model.Consultant{}
	}
	writeJSON(w, http.StatusOK, consultants)
}

func (h *ConsultantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req consultantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = optString(req.Email)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	c, err := h.store.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		h.logger.Error("create consultant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create consultant")
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityConsultant, "created", c.ID, nil))
	writeJSON(w, http.StatusCreated, c)
}
