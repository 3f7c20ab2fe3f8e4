package server

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/dukerupert/officecrm/internal/config"
	"github.com/dukerupert/officecrm/internal/handler"
	"github.com/dukerupert/officecrm/internal/middleware"
	"github.com/dukerupert/officecrm/internal/schedule"
	"github.com/dukerupert/officecrm/internal/storage"
	"github.com/dukerupert/officecrm/internal/store"
	"github.com/dukerupert/officecrm/internal/telemetry"
	ws "github.com/dukerupert/officecrm/internal/websocket"
)

type Server struct {
	cfg          *config.Config
	hub          *ws.Hub
	scheduleH    *handler.ScheduleHandler
	pageH        *handler.PageHandler
	consultantH  *handler.ConsultantHandler
	appointmentH *handler.AppointmentHandler
	clientH      *handler.ClientHandler
	leadH        *handler.LeadHandler
	dealH        *handler.DealHandler
	proposalH    *handler.ProposalHandler
	fileH        *handler.FileHandler
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(cfg *config.Config, db *gorm.DB, blobs storage.Storage, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	consultantStore := store.NewConsultantStore(db)
	appointmentStore := store.NewAppointmentStore(db)
	clientStore := store.NewClientStore(db)
	leadStore := store.NewLeadStore(db)
	dealStore := store.NewDealStore(db)
	proposalStore := store.NewProposalStore(db)
	fileStore := store.NewClientFileStore(db)

	svc := schedule.NewService(appointmentStore, consultantStore, schedule.Config{
		Scope: schedule.ParseConsultantScope(cfg.ConsultantScope),
	})

	return &Server{
		cfg:          cfg,
		hub:          hub,
		scheduleH:    handler.NewScheduleHandler(svc, appointmentStore, logger.With("component", "schedule")),
		pageH:        handler.NewPageHandler(svc, cfg.GridPreset, logger.With("component", "pages")),
		consultantH:  handler.NewConsultantHandler(consultantStore, hub, logger.With("component", "consultant")),
		appointmentH: handler.NewAppointmentHandler(appointmentStore, clientStore, consultantStore, hub, logger.With("component", "appointment")),
		clientH:      handler.NewClientHandler(clientStore, appointmentStore, blobs, hub, logger.With("component", "client")),
		leadH:        handler.NewLeadHandler(leadStore, clientStore, logger.With("component", "lead")),
		dealH:        handler.NewDealHandler(dealStore, clientStore, logger.With("component", "deal")),
		proposalH:    handler.NewProposalHandler(proposalStore, dealStore, hub, logger.With("component", "proposal")),
		fileH:        handler.NewFileHandler(fileStore, clientStore, blobs, hub, logger.With("component", "file")),
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	s.registerRoutes(mux)

	var h http.Handler = mux
	h = telemetry.Handler(h, "officecrm")
	h = middleware.CORS(s.cfg.CORSOrigins)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.ByIP, s.cfg.UploadRateLimit, s.cfg.UploadRateWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Schedule
	mux.HandleFunc("GET /schedule/day", s.scheduleH.Day)
	mux.HandleFunc("GET /schedule/week", s.scheduleH.Week)
	mux.HandleFunc("GET /api/schedule/day", s.scheduleH.Day)
	mux.HandleFunc("GET /api/schedule/week", s.scheduleH.Week)
	mux.HandleFunc("GET /api/schedule/signed-in", s.scheduleH.SignedIn)

	// Consultants
	mux.HandleFunc("GET /api/consultants", s.consultantH.List)
	mux.HandleFunc("POST /api/consultants", s.consultantH.Create)

	// Appointments
	mux.HandleFunc("POST /api/appointments", s.appointmentH.Create)
	mux.HandleFunc("PUT /api/appointments/{id}", s.appointmentH.Update)
	mux.HandleFunc("PATCH /api/appointments/{id}/status", s.appointmentH.UpdateStatus)
	mux.HandleFunc("DELETE /api/appointments/{id}", s.appointmentH.Delete)
	mux.HandleFunc("GET /api/appointment-types", s.appointmentH.ListTypes)

	// Clients
	mux.HandleFunc("POST /api/clients", s.clientH.Create)
	mux.HandleFunc("GET /api/clients/search", s.clientH.Search)
	mux.HandleFunc("GET /api/clients/{id}", s.clientH.Get)
	mux.HandleFunc("PUT /api/clients/{id}", s.clientH.Update)
	mux.HandleFunc("GET /api/clients/{id}/appointments", s.clientH.Appointments)
	mux.HandleFunc("POST /api/clients/{id}/photo", s.rateLimitedHandler(s.clientH.UploadPhoto))

	// Leads, deals and proposals
	mux.HandleFunc("GET /api/clients/{id}/leads", s.leadH.List)
	mux.HandleFunc("POST /api/clients/{id}/leads", s.leadH.Create)
	mux.HandleFunc("GET /api/clients/{id}/deals", s.dealH.List)
	mux.HandleFunc("POST /api/clients/{id}/deals", s.dealH.Create)
	mux.HandleFunc("GET /api/clients/{id}/proposals", s.proposalH.ListByClient)
	mux.HandleFunc("POST /api/deals/{id}/proposals", s.proposalH.Create)
	mux.HandleFunc("PATCH /api/proposals/{id}/status", s.proposalH.UpdateStatus)

	// Client files
	mux.HandleFunc("GET /api/clients/{id}/files", s.fileH.List)
	mux.HandleFunc("POST /api/clients/{id}/files", s.rateLimitedHandler(s.fileH.Upload))
	mux.HandleFunc("GET /api/files/{id}/download", s.fileH.Download)
	mux.HandleFunc("PATCH /api/files/{id}", s.fileH.Update)
	mux.HandleFunc("DELETE /api/files/{id}", s.fileH.Delete)

	// Pages
	mux.HandleFunc("GET /schedule", s.pageH.Day)
	mux.HandleFunc("GET /schedule/week/view", s.pageH.Week)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, originHosts(s.cfg.CORSOrigins), s.logger.With("component", "websocket")))
}

// originHosts turns configured CORS origins into websocket origin host patterns.
func originHosts(origins []string) []string {
	var out []string
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
