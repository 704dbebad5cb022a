package board

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas-go/internal/document"
	"github.com/inamate/canvas-go/internal/engine"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the board endpoints on r, which is expected to be
// mounted at /api.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/boards", h.List).Methods("GET")
	r.HandleFunc("/boards", h.Create).Methods("POST")
	r.HandleFunc("/boards/{boardId}", h.Get).Methods("GET")
	r.HandleFunc("/boards/{boardId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/boards/{boardId}/shapes", h.AddShape).Methods("POST")
	r.HandleFunc("/boards/{boardId}/shapes/{shapeId}", h.RemoveShape).Methods("DELETE")
	r.HandleFunc("/boards/{boardId}/ops", h.Apply).Methods("POST")
	r.HandleFunc("/boards/{boardId}/pick", h.Pick).Methods("GET")
	r.HandleFunc("/boards/{boardId}/commands", h.Commands).Methods("GET")
	r.HandleFunc("/boards/{boardId}/objects", h.Objects).Methods("GET")
	r.HandleFunc("/boards/{boardId}/save", h.Save).Methods("POST")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	board, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, board)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list boards failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, boards)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["boardId"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddShape(w http.ResponseWriter, r *http.Request) {
	var node document.ShapeNode
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	added, err := h.service.AddShape(r.Context(), mux.Vars(r)["boardId"], node)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

func (h *Handler) RemoveShape(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.RemoveShape(r.Context(), vars["boardId"], vars["shapeId"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var op document.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	seq, err := h.service.Apply(r.Context(), mux.Vars(r)["boardId"], op)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"seq": seq})
}

func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y must be numbers"})
		return
	}

	hit, err := h.service.Pick(r.Context(), mux.Vars(r)["boardId"], x, y)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hit)
}

func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	cmds, err := h.service.Commands(r.Context(), mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cmds)
}

func (h *Handler) Objects(w http.ResponseWriter, r *http.Request) {
	objects, err := h.service.Export(r.Context(), mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, objects)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Save(r.Context(), mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        snap.ID,
		"version":   snap.Version,
		"createdAt": snap.CreatedAt,
	})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, engine.ErrShapeNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrInvalidSize),
		errors.Is(err, engine.ErrInvalidOperation),
		errors.Is(err, engine.ErrInvalidOptions):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("board request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
