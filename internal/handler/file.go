package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/storage"
	"github.com/dukerupert/officecrm/internal/store"
	"github.com/dukerupert/officecrm/internal/websocket"
)

const maxUploadSize = 25 << 20

type FileHandler struct {
	files   *store.ClientFileStore
	clients *store.ClientStore
	blobs   storage.Storage
	hub     websocket.Broadcaster
	logger  *slog.Logger
	now     func() time.Time
}

func NewFileHandler(fs *store.ClientFileStore, cs *store.ClientStore, blobs storage.Storage, hub websocket.Broadcaster, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: fs, clients: cs, blobs: blobs, hub: hub, logger: logger, now: time.Now}
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	items, err := h.files.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("list client files", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "failed to list files")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Upload accepts a multipart form with "file" and optional "displayName",
// "description" and "fileDate" fields.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	client, err := h.clients.GetByID(r.Context(), clientID)
	if err != nil {
		h.logger.Error("get client", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	displayName := strings.TrimSpace(r.FormValue("displayName"))
	if displayName == "" {
		displayName = header.Filename
	}
	ext := storage.SafeExt(displayName)
	if ext == "" {
		ext = storage.SafeExt(header.Filename)
	}
	if ext == "" {
		ext = "bin"
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.ContentTypeForExt(ext)
	}

	fileDate := h.now().UTC()
	if s := strings.TrimSpace(r.FormValue("fileDate")); s != "" {
		t, err := parseFlexibleTime(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "fileDate must be a date")
			return
		}
		fileDate = t
	}

	storedName := storage.StoredName(ext)
	obj, err := storage.Upload(r.Context(), h.blobs, storage.FileKey(storedName), file, contentType)
	if err != nil {
		h.logger.Error("store upload", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	desc := r.FormValue("description")
	f := model.ClientFile{
		ClientID:    clientID,
		StoredName:  storedName,
		DisplayName: displayName,
		Ext:         ext,
		ContentType: contentType,
		Description: optString(&desc),
		FileDate:    fileDate,
		Bytes:       obj.Bytes,
		Checksum:    obj.Checksum,
	}
	if err := h.files.Create(r.Context(), &f); err != nil {
		h.logger.Error("create client file", "error", err, "client_id", clientID)
		if derr := h.blobs.Delete(r.Context(), obj.Key); derr != nil {
			h.logger.Warn("remove orphaned upload", "error", derr, "key", obj.Key)
		}
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	h.logger.Info("file uploaded", "id", f.ID, "client_id", clientID, "bytes", f.Bytes)
	broadcast(h.hub, websocket.NewMessage(websocket.EntityClientFile, "created", f.ID, map[string]any{"clientId": clientID}))
	writeJSON(w, http.StatusCreated, f)
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := h.files.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get client file", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "download failed")
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	etag := `"` + f.Checksum + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	rc, err := h.blobs.Open(r.Context(), storage.FileKey(f.StoredName))
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			writeError(w, http.StatusNotFound, "file content missing")
			return
		}
		h.logger.Error("open stored file", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "download failed")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", f.Bytes))
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Disposition", contentDisposition(f))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("stream file", "error", err, "id", id)
	}
}

// contentDisposition names the download after the display name, adding the
// extension when the display name lacks it.
func contentDisposition(f *model.ClientFile) string {
	name := f.DisplayName
	if f.Ext != "" && !strings.HasSuffix(strings.ToLower(name), "."+f.Ext) {
		name += "." + f.Ext
	}
	return fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(name))
}

type fileUpdateRequest struct {
	DisplayName *string `json:"displayName"`
	Description *string `json:"description"`
	Ext         *string `json:"ext"`
	ContentType *string `json:"contentType"`
	FileDate    *string `json:"fileDate"`
}

func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req fileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var u store.FileUpdate
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			writeError(w, http.StatusBadRequest, "displayName cannot be empty")
			return
		}
		u.DisplayName = &name
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		u.Description = &desc
	}
	if req.Ext != nil {
		ext := storage.SafeExt("x." + *req.Ext)
		if ext == "" {
			writeError(w, http.StatusBadRequest, "invalid ext")
			return
		}
		u.Ext = &ext
	}
	if req.ContentType != nil {
		ct := strings.TrimSpace(*req.ContentType)
		if ct == "" {
			writeError(w, http.StatusBadRequest, "contentType cannot be empty")
			return
		}
		u.ContentType = &ct
	}
	if req.FileDate != nil {
		t, err := parseFlexibleTime(*req.FileDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "fileDate must be a date")
			return
		}
		u.FileDate = &t
	}

	f, err := h.files.Update(r.Context(), id, u)
	if err != nil {
		h.logger.Error("update client file", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityClientFile, "updated", f.ID, map[string]any{"clientId": f.ClientID}))
	writeJSON(w, http.StatusOK, f)
}

// Delete removes the row, then the blob. Missing files still report success.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := h.files.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete client file", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if f != nil {
		if err := h.blobs.Delete(r.Context(), storage.FileKey(f.StoredName)); err != nil {
			h.logger.Warn("remove stored file", "error", err, "id", id)
		}
		broadcast(h.hub, websocket.NewMessage(websocket.EntityClientFile, "deleted", f.ID, map[string]any{"clientId": f.ClientID}))
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
