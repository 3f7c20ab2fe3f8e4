package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/officecrm/internal/schedule"
	"github.com/dukerupert/officecrm/internal/store"
)

type ScheduleHandler struct {
	svc    *schedule.Service
	appts  *store.AppointmentStore
	logger *slog.Logger
}

func NewScheduleHandler(svc *schedule.Service, appts *store.AppointmentStore, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, appts: appts, logger: logger}
}

// Day serves GET /schedule/day?date=YYYY-MM-DD&consultantId=.
func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload, err := h.svc.Day(r.Context(), q.Get("date"), q.Get("consultantId"))
	if err != nil {
		h.logger.Error("schedule day", "error", err, "date", q.Get("date"))
		writeError(w, http.StatusInternalServerError, "day failed")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// Week serves GET /schedule/week?start=YYYY-MM-DD&consultantId=.
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload, err := h.svc.Week(r.Context(), q.Get("start"), q.Get("consultantId"))
	if err != nil {
		h.logger.Error("schedule week", "error", err, "start", q.Get("start"))
		writeError(w, http.StatusInternalServerError, "week failed")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// SignedIn lists today's signed-in appointments.
func (h *ScheduleHandler) SignedIn(w http.ResponseWriter, r *http.Request) {
	rows, err := h.appts.ListSignedIn(r.Context(), h.svc.Now())
	if err != nil {
		h.logger.Error("signed in", "error", err)
		writeError(w, http.StatusInternalServerError, "signed-in failed")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
