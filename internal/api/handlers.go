package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/store"
	"github.com/inkwellhq/inkwell/internal/types"
)

// Handler implements the API handlers.
type Handler struct {
	store   store.Store
	apiKey  string
	version string
	theme   string
}

// NewHandler creates a new Handler over the record store. An empty apiKey
// disables authentication.
func NewHandler(s store.Store, apiKey, version, theme string) *Handler {
	return &Handler{
		store:   s,
		apiKey:  apiKey,
		version: version,
		theme:   theme,
	}
}

// Health returns the health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	folders, notes, err := h.store.Counts(r.Context())
	if err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:      "healthy",
		Version:     h.version,
		FolderCount: folders,
		NoteCount:   notes,
	})
}

// Theme returns the configured appearance settings.
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": h.theme})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}
