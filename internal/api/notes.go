package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwellhq/inkwell/internal/attachment"
	"github.com/inkwellhq/inkwell/internal/query"
	"github.com/inkwellhq/inkwell/internal/types"
	"github.com/inkwellhq/inkwell/internal/validation"
)

// parseListParams reads listing parameters from the query string. Missing
// or malformed values fall back to defaults via Params.Normalize.
func parseListParams(r *http.Request) query.Params {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return query.Params{
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      page,
		Limit:     limit,
	}.Normalize()
}

// ListNotesByFolder handles GET /api/notes/folder/{id}
func (h *Handler) ListNotesByFolder(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.NotesByFolder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Run(notes, parseListParams(r)))
}

// GetNote handles GET /api/notes/{id}. The owning folder comes back
// expanded so the client can render folder context in one round trip.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.GetNote(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req types.CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := validation.ValidateNoteFields(req.Title, req.Content)
	if v := validation.ValidateRequired("folderId", req.FolderID); v != nil {
		errs = append(errs, *v)
	}
	if len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Note contains invalid fields", errs)
		return
	}
	req.Tags = validation.NormalizeTags(req.Tags)

	encoded, rejected := attachment.EncodeBatch(req.Images)
	if len(rejected) > 0 {
		WriteProblemWithErrors(w, r, "Some images were rejected", rejectionErrors(rejected))
		return
	}
	if err := attachment.EnforceLimit(0, 0, len(encoded)); err != nil {
		MapStoreError(w, r, err)
		return
	}

	note, err := h.store.CreateNote(r.Context(), req, encoded)
	if err != nil {
		slog.Error("create note failed", "error", err, "folder_id", req.FolderID)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req types.UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errs := validation.ValidateNoteFields(req.Title, req.Content); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Note contains invalid fields", errs)
		return
	}
	req.Tags = validation.NormalizeTags(req.Tags)

	current, err := h.store.GetNote(r.Context(), id, false)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	// Replay the edit session's attachment changes against the stored
	// note so the count limit is checked on the projected result, not the
	// request in isolation. Removals naming attachments the note does not
	// hold free no slots.
	existing := make(map[string]bool, len(current.Images))
	for _, img := range current.Images {
		existing[img.Filename] = true
	}
	staging := attachment.NewStaging(len(current.Images))
	for _, filename := range req.RemoveImages {
		if existing[filename] {
			staging.MarkRemoval(filename)
		}
	}
	if err := staging.Add(req.Images...); err != nil {
		MapStoreError(w, r, err)
		return
	}

	encoded, rejected := attachment.EncodeBatch(staging.Additions())
	if len(rejected) > 0 {
		WriteProblemWithErrors(w, r, "Some images were rejected", rejectionErrors(rejected))
		return
	}

	note, err := h.store.UpdateNote(r.Context(), id, req, encoded)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteNote(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	slog.Info("note deleted", "note_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// TogglePin handles PATCH /api/notes/{id}/pin. Pinning never touches the
// date histories.
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.TogglePin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// GlobalSearch handles GET /api/notes/search/global: matching notes across
// every folder ordered newest-modified-first.
func (h *Handler) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.AllNotes(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	q := r.URL.Query()
	term := q.Get("q")
	if term == "" {
		// Legacy clients sent the term under the per-folder listing's name.
		term = q.Get("search")
	}
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	writeJSON(w, http.StatusOK, query.RunGlobal(notes, term, page, limit))
}

func rejectionErrors(rejected []attachment.Rejection) []validation.ValidationError {
	errs := make([]validation.ValidationError, 0, len(rejected))
	for _, rej := range rejected {
		errs = append(errs, validation.ValidationError{Field: rej.Name, Message: rej.Err.Error()})
	}
	return errs
}
