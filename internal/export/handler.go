// Package export serves rendered board images.
package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas-go/internal/raster"
)

// Renderer rasterises a board.
type Renderer interface {
	Render(ctx context.Context, boardID string) (image.Image, error)
}

type Handler struct {
	renderer Renderer
	notFound error
}

// NewHandler serves images from r. Render errors matching notFound become
// 404 responses.
func NewHandler(r Renderer, notFound error) *Handler {
	return &Handler{renderer: r, notFound: notFound}
}

// Render handles GET /boards/{boardId}/render.{format}.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	format, err := raster.ParseFormat(vars["format"])
	if err != nil {
		http.Error(w, "invalid format: must be png or webp", http.StatusBadRequest)
		return
	}

	img, err := h.renderer.Render(r.Context(), vars["boardId"])
	if err != nil {
		if h.notFound != nil && errors.Is(err, h.notFound) {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}
		slog.Error("render board", "error", err, "board", vars["boardId"])
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := raster.Encode(&buf, img, format); err != nil {
		slog.Error("encode image", "error", err, "format", format)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
