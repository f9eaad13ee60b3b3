package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/planboard/internal/repository"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

const problemBase = "https://planboard.dev/errors/"

// problemTypes maps HTTP status codes to RFC 7807 type URIs and titles.
var problemTypes = map[int]struct {
	typeURI string
	title   string
}{
	http.StatusUnauthorized:        {problemBase + "unauthorized", "Unauthorized"},
	http.StatusBadRequest:          {problemBase + "bad-request", "Bad Request"},
	http.StatusNotFound:            {problemBase + "not-found", "Not Found"},
	http.StatusConflict:            {problemBase + "conflict", "Conflict"},
	http.StatusUnprocessableEntity: {problemBase + "validation-error", "Validation Error"},
	http.StatusInternalServerError: {problemBase + "internal-error", "Internal Server Error"},
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	pt, ok := problemTypes[status]
	if !ok {
		pt.typeURI = problemBase + "unknown"
		pt.title = http.StatusText(status)
	}

	p := Problem{
		Type:     pt.typeURI,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// MapStoreError converts repository errors to Problem Details responses.
func MapStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, repository.ErrConflict):
		WriteProblem(w, r, http.StatusConflict, "Duplicate entry")
	case errors.Is(err, repository.ErrInvalidLane):
		WriteProblem(w, r, http.StatusUnprocessableEntity, "Unknown lane")
	default:
		slog.Error("store error", "path", r.URL.Path, "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
