package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/schedule"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"statusLabel": func(s model.AppointmentStatus) string { return s.Label() },
	"statusColor": func(s model.AppointmentStatus) template.CSS { return template.CSS(s.Color()) },
	"deref": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
}

// PageHandler renders the schedule pages.
type PageHandler struct {
	svc         *schedule.Service
	defaultGrid string
	templates   *template.Template
	logger      *slog.Logger
}

// NewPageHandler builds the page handler. defaultGrid names the grid preset used
// when a request has no ?grid= parameter.
func NewPageHandler(svc *schedule.Service, defaultGrid string, logger *slog.Logger) *PageHandler {
	tmpl := template.Must(template.New("").Funcs(pageFuncs).ParseFS(templateFS, "templates/*.html"))
	return &PageHandler{svc: svc, defaultGrid: defaultGrid, templates: tmpl, logger: logger}
}

// shiftDate moves a YYYY-MM-DD date by days.
func shiftDate(dateISO string, days int) string {
	t, err := time.ParseInLocation(schedule.DateLayout, dateISO, time.UTC)
	if err != nil {
		return dateISO
	}
	return t.AddDate(0, 0, days).Format(schedule.DateLayout)
}

// Day renders the day grid for ?date=&consultantId=&grid=.
func (h *PageHandler) Day(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload, err := h.svc.Day(r.Context(), q.Get("date"), q.Get("consultantId"))
	if err != nil {
		h.logger.Error("schedule page", "error", err, "date", q.Get("date"))
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return
	}

	gridName := q.Get("grid")
	if gridName == "" {
		gridName = h.defaultGrid
	}
	grid := schedule.BuildDayGrid(payload.Appointments, payload.Consultants, schedule.GridPreset(gridName))
	h.render(w, "schedule_day.html", map[string]any{
		"Title":        "Schedule " + payload.DateISO,
		"DateISO":      payload.DateISO,
		"PrevDate":     shiftDate(payload.DateISO, -1),
		"NextDate":     shiftDate(payload.DateISO, 1),
		"ConsultantID": q.Get("consultantId"),
		"GridName":     q.Get("grid"),
		"Grid":         grid,
		"Statuses":     model.AppointmentStatuses,
	})
}

// Week renders seven day columns starting at ?start=.
func (h *PageHandler) Week(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload, err := h.svc.Week(r.Context(), q.Get("start"), q.Get("consultantId"))
	if err != nil {
		h.logger.Error("week page", "error", err, "start", q.Get("start"))
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return
	}

	h.render(w, "schedule_week.html", map[string]any{
		"Title":        "Week of " + payload.StartISO,
		"StartISO":     payload.StartISO,
		"PrevStart":    shiftDate(payload.StartISO, -7),
		"NextStart":    shiftDate(payload.StartISO, 7),
		"ConsultantID": q.Get("consultantId"),
		"Days":         payload.Days,
		"Consultants":  payload.Consultants,
		"Statuses":     model.AppointmentStatuses,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
