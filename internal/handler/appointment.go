package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/schedule"
	"github.com/dukerupert/officecrm/internal/store"
	"github.com/dukerupert/officecrm/internal/websocket"
)

type AppointmentHandler struct {
	appts       *store.AppointmentStore
	clients     *store.ClientStore
	consultants *store.ConsultantStore
	hub         websocket.Broadcaster
	logger      *slog.Logger
}

func NewAppointmentHandler(as *store.AppointmentStore, cs *store.ClientStore, cons *store.ConsultantStore, hub websocket.Broadcaster, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{appts: as, clients: cs, consultants: cons, hub: hub, logger: logger}
}

type appointmentRequest struct {
	ClientID          string  `json:"clientId" validate:"required"`
	ConsultantID      *string `json:"consultantId"`
	AppointmentTypeID *string `json:"appointmentTypeId"`
	TypeName          *string `json:"typeName"`
	StartISO          string  `json:"startISO" validate:"required"`
	DurationMin       int     `json:"durationMin" validate:"gt=0"`
	Status            string  `json:"status"`
	Notes             *string `json:"notes"`
}

// toAppointment validates the request and resolves its references. It returns a
// client-facing message on failure.
func (h *AppointmentHandler) toAppointment(r *http.Request, req appointmentRequest) (*model.Appointment, string, error) {
	req.ConsultantID = optString(req.ConsultantID)
	req.AppointmentTypeID = optString(req.AppointmentTypeID)
	if err := validate.Struct(req); err != nil {
		return nil, validationMessage(err), nil
	}

	start, err := parseFlexibleTime(req.StartISO)
	if err != nil {
		return nil, "startISO must be an ISO 8601 timestamp", nil
	}

	status := model.StatusUnconfirmed
	if strings.TrimSpace(req.Status) != "" {
		st, ok := model.ParseAppointmentStatus(req.Status)
		if !ok {
			return nil, "invalid status", nil
		}
		status = st
	}

	ctx := r.Context()
	client, err := h.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, "", err
	}
	if client == nil {
		return nil, "unknown client", nil
	}
	if req.ConsultantID != nil {
		c, err := h.consultants.GetByID(ctx, *req.ConsultantID)
		if err != nil {
			return nil, "", err
		}
		if c == nil {
			return nil, "unknown consultant", nil
		}
	}

	typeID := req.AppointmentTypeID
	if typeID == nil {
		if name := optString(req.TypeName); name != nil {
			id, err := h.appts.EnsureType(ctx, *name)
			if err != nil {
				return nil, "", err
			}
			typeID = &id
		}
	}

	return &model.Appointment{
		ClientID:          req.ClientID,
		ConsultantID:      req.ConsultantID,
		AppointmentTypeID: typeID,
		StartAt:           start,
		DurationMin:       req.DurationMin,
		Status:            status,
		Notes:             optString(req.Notes),
	}, "", nil
}

func (h *AppointmentHandler) notify(action string, a *model.Appointment) {
	broadcast(h.hub, websocket.NewMessage(websocket.EntityAppointment, action, a.ID, map[string]any{
		"date": a.StartAt.UTC().Format(schedule.DateLayout),
	}))
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	a, msg, err := h.toAppointment(r, req)
	if err != nil {
		h.logger.Error("resolve appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.appts.Create(r.Context(), a); err != nil {
		h.logger.Error("create appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.notify("created", a)
	writeJSON(w, http.StatusCreated, a)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.appts.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get appointment", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to get appointment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}

	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	a, msg, err := h.toAppointment(r, req)
	if err != nil {
		h.logger.Error("resolve appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	a.ID = id

	if err := h.appts.Update(r.Context(), a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("update appointment", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}

	updated, err := h.appts.GetByID(r.Context(), id)
	if err != nil || updated == nil {
		h.logger.Error("reload appointment", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	h.notify("updated", updated)
	writeJSON(w, http.StatusOK, updated)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	status, ok := model.ParseAppointmentStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.appts.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("update appointment status", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	a, err := h.appts.GetByID(r.Context(), id)
	if err != nil || a == nil {
		h.logger.Error("reload appointment", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	h.notify("updated", a)
	writeJSON(w, http.StatusOK, a)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.appts.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get appointment", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}
	if existing == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.appts.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete appointment", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}

	h.notify("deleted", existing)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AppointmentHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.appts.ListTypes(r.Context())
	if err != nil {
		h.logger.Error("list appointment types", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list appointment types")
		return
	}
	if types == nil {
		types = []model.AppointmentType{}
	}
	writeJSON(w, http.StatusOK, types)
}
