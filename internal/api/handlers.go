package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/service"
)

// Handler implements the API handlers
type Handler struct {
	store   repository.RemoteStore
	lanes   repository.LaneRepo
	library service.LibraryService
	apiKey  string
	version string
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandler creates a Handler. apiKey may be empty to disable auth.
func NewHandler(store repository.RemoteStore, lanes repository.LaneRepo, library service.LibraryService, apiKey, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   store,
		lanes:   lanes,
		library: library,
		apiKey:  apiKey,
		version: version,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Lanes   int    `json:"lanes"`
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	lanes, err := h.lanes.ListLanes(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: h.version, Lanes: len(lanes)})
}

// ListLanes handles GET /api/v1/lanes
func (h *Handler) ListLanes(w http.ResponseWriter, r *http.Request) {
	lanes, err := h.lanes.ListLanes(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	out := make([]repository.LaneRecord, len(lanes))
	for i, l := range lanes {
		out[i] = repository.LaneRecord{ID: l.ID, Title: l.Title, Position: l.Position}
	}
	writeJSON(w, http.StatusOK, out)
}

// ListTactics handles GET /api/v1/tactics
func (h *Handler) ListTactics(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListItems(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	out := make([]repository.TacticRecord, len(items))
	for i, t := range items {
		out[i] = repository.RecordFromTactic(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// InsertTactic handles POST /api/v1/tactics
func (h *Handler) InsertTactic(w http.ResponseWriter, r *http.Request) {
	var rec repository.TacticRecord
	if !decode(w, r, &rec) {
		return
	}
	rec.Title = strings.TrimSpace(rec.Title)
	if rec.Title == "" {
		WriteProblem(w, r, http.StatusBadRequest, "title is required")
		return
	}
	if rec.SectionID == "" {
		WriteProblem(w, r, http.StatusBadRequest, "section_id is required")
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := h.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	t := rec.Tactic()
	if err := h.store.InsertItem(r.Context(), t); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, repository.RecordFromTactic(t))
}

// UpdateTactic handles PATCH /api/v1/tactics/{id}
func (h *Handler) UpdateTactic(w http.ResponseWriter, r *http.Request) {
	var req repository.UpdateTacticRequest
	if !decode(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		WriteProblem(w, r, http.StatusBadRequest, "title is required")
		return
	}
	fields := repository.TacticFields{
		Title:   req.Title,
		Budget:  domain.CoerceBudget(req.Budget),
		Content: req.Content,
	}
	if err := h.store.UpdateItem(r.Context(), chi.URLParam(r, "id"), fields); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveTactic handles PUT /api/v1/tactics/{id}/lane
func (h *Handler) MoveTactic(w http.ResponseWriter, r *http.Request) {
	var req repository.MoveTacticRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SectionID == "" {
		WriteProblem(w, r, http.StatusBadRequest, "section_id is required")
		return
	}
	if err := h.store.MoveItem(r.Context(), chi.URLParam(r, "id"), req.SectionID, req.Rank); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTactic handles DELETE /api/v1/tactics/{id}. Deleting a missing
// tactic succeeds.
func (h *Handler) DeleteTactic(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLibrary handles GET /api/v1/library?category=
func (h *Handler) ListLibrary(w http.ResponseWriter, r *http.Request) {
	items, err := h.library.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		if isValidation(err) {
			WriteProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		MapStoreError(w, r, err)
		return
	}
	out := make([]repository.LibraryRecord, len(items))
	for i, l := range items {
		out[i] = repository.RecordFromLibrary(l)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetLibrary handles GET /api/v1/library/{id}
func (h *Handler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	l, err := h.library.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, repository.RecordFromLibrary(l))
}

// CreateLibrary handles POST /api/v1/library
func (h *Handler) CreateLibrary(w http.ResponseWriter, r *http.Request) {
	var rec repository.LibraryRecord
	if !decode(w, r, &rec) {
		return
	}
	l := rec.LibraryTactic()
	if err := h.library.Create(r.Context(), l); err != nil {
		if isValidation(err) {
			WriteProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, repository.RecordFromLibrary(l))
}

// DeleteLibrary handles DELETE /api/v1/library/{id}
func (h *Handler) DeleteLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.library.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isValidation reports whether err is a caller mistake rather than a store
// failure.
func isValidation(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
