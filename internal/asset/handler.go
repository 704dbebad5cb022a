package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const maxUploadSize = 10 << 20 // 10MB

var allowedTypes = []string{"image/png", "image/jpeg", "image/webp", "image/x-tga", "image/tga", "application/octet-stream"}

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowed(contentType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "only PNG, JPEG, WebP and TGA images are supported"})
		return
	}

	img, format, err := Decode(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := h.store.Save(img)
	if err != nil {
		slog.Error("save asset", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
		return
	}

	b := img.Bounds()
	slog.Info("asset uploaded", "id", id, "format", format, "width", b.Dx(), "height", b.Dy())
	writeJSON(w, http.StatusCreated, UploadResponse{
		ID:     id,
		URL:    fmt.Sprintf("/assets/%s.png", id),
		Width:  b.Dx(),
		Height: b.Dy(),
		Type:   format,
		Name:   header.Filename,
	})
}

// Delete handles DELETE /assets/{assetId}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(mux.Vars(r)["assetId"]); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "asset not found"})
			return
		}
		slog.Error("delete asset", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.store.Dir()))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

func allowed(contentType string) bool {
	for _, t := range allowedTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
