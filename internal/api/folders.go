package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwellhq/inkwell/internal/types"
	"github.com/inkwellhq/inkwell/internal/validation"
)

// ListFolders handles GET /api/folders
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.store.ListFolders(r.Context())
	if err != nil {
		slog.Error("list folders failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// GetFolder handles GET /api/folders/{id}
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.store.GetFolder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// CreateFolder handles POST /api/folders
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req types.CreateFolderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := validation.ValidateFolderFields(req.Name, req.Description, req.Color); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Folder contains invalid fields", errs)
		return
	}

	folder, err := h.store.CreateFolder(r.Context(), req)
	if err != nil {
		slog.Error("create folder failed", "error", err, "name", req.Name)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// UpdateFolder handles PUT /api/folders/{id}
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateFolderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := validation.ValidateFolderFields(req.Name, req.Description, req.Color); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Folder contains invalid fields", errs)
		return
	}

	folder, err := h.store.UpdateFolder(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /api/folders/{id}. Owned notes go with the
// folder.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteFolder(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	slog.Info("folder deleted", "folder_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// FolderStats handles GET /api/folders/{id}/stats
func (h *Handler) FolderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetFolderStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
