package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/storage"
	"github.com/dukerupert/officecrm/internal/store"
	"github.com/dukerupert/officecrm/internal/websocket"
)

const (
	clientApptLimit = 20
	maxPhotoSize    = 10 << 20
)

type ClientHandler struct {
	clients *store.ClientStore
	appts   *store.AppointmentStore
	files   storage.Storage
	hub     websocket.Broadcaster
	logger  *slog.Logger
	now     func() time.Time
}

func NewClientHandler(cs *store.ClientStore, as *store.AppointmentStore, files storage.Storage, hub websocket.Broadcaster, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{clients: cs, appts: as, files: files, hub: hub, logger: logger, now: time.Now}
}

type clientRequest struct {
	AccountNumber     *string    `json:"accountNumber"`
	Name              *string    `json:"name"`
	CompanyName       *string    `json:"companyName"`
	Address1          *string    `json:"address1"`
	Address2          *string    `json:"address2"`
	City              *string    `json:"city"`
	State             *string    `json:"state"`
	Zip               *string    `json:"zip"`
	WorkPhone1        *string    `json:"workPhone1"`
	WorkPhone2        *string    `json:"workPhone2"`
	Cell              *string    `json:"cell"`
	Fax               *string    `json:"fax"`
	Emails            stringList `json:"emails"`
	Email             stringList `json:"email"`
	PreferredContact  *string    `json:"preferredContact"`
	PrimaryConsultant *string    `json:"primaryConsultant"`
	Alert             *string    `json:"alert"`
	Notes             *string    `json:"notes"`
	BillAddress1      *string    `json:"bill_address1"`
	BillAddress2      *string    `json:"bill_address2"`
	BillCity          *string    `json:"bill_city"`
	BillState         *string    `json:"bill_state"`
	BillZip           *string    `json:"bill_zip"`
}

func (req clientRequest) toClient() model.Client {
	emails := append([]string{}, req.Emails...)
	emails = append(emails, req.Email...)
	c := model.Client{
		CompanyName:       optString(req.CompanyName),
		Address1:          optString(req.Address1),
		Address2:          optString(req.Address2),
		City:              optString(req.City),
		State:             optString(req.State),
		Zip:               optString(req.Zip),
		WorkPhone1:        optString(req.WorkPhone1),
		WorkPhone2:        optString(req.WorkPhone2),
		Cell:              optString(req.Cell),
		Fax:               optString(req.Fax),
		Emails:            model.NormalizeEmails(emails),
		PreferredContact:  optString(req.PreferredContact),
		PrimaryConsultant: optString(req.PrimaryConsultant),
		Alert:             optString(req.Alert),
		Notes:             optString(req.Notes),
		BillAddress1:      optString(req.BillAddress1),
		BillAddress2:      optString(req.BillAddress2),
		BillCity:          optString(req.BillCity),
		BillState:         optString(req.BillState),
		BillZip:           optString(req.BillZip),
	}
	if n := optString(req.Name); n != nil {
		c.Name = *n
	}
	if a := optString(req.AccountNumber); a != nil {
		c.AccountNumber = *a
	}
	return c
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	c := req.toClient()
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.clients.Create(r.Context(), &c); err != nil {
		h.logger.Error("create client", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityClient, "created", c.ID, nil))
	writeJSON(w, http.StatusCreated, c)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := h.clients.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get client", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to load client"})
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "client": c})
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.clients.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get client", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Update failed"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Not found"})
		return
	}

	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON"})
		return
	}

	c := req.toClient()
	c.ID = id
	if c.Name == "" {
		c.Name = existing.Name
	}
	if req.Emails == nil && req.Email == nil {
		c.Emails = existing.Emails
	}

	if err := h.clients.Update(r.Context(), &c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Not found"})
			return
		}
		h.logger.Error("update client", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Update failed"})
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityClient, "updated", id, nil))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := store.ParseSearchCriteria(q.Get("criteria"))
	rows, err := h.clients.Search(r.Context(), criteria, q.Get("query"))
	if err != nil {
		h.logger.Error("search clients", "error", err, "criteria", criteria)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ClientHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	upcoming, previous, err := h.appts.ListForClient(r.Context(), id, h.now(), clientApptLimit)
	if err != nil {
		h.logger.Error("list client appointments", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if upcoming == nil {
		upcoming = []model.Appt{}
	}
	if previous == nil {
		previous = []model.Appt{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"upcoming": upcoming, "previous": previous})
}

// UploadPhoto stores the "photo" form file as the client's profile photo.
func (h *ClientHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := h.clients.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get client", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "photo must be an image")
		return
	}

	key := storage.PhotoKey(id)
	if _, err := storage.Upload(r.Context(), h.files, key, file, contentType); err != nil {
		h.logger.Error("store client photo", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityClient, "updated", id, nil))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "key": key})
}
