package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelplan/reelplan/internal/middleware"
	"github.com/reelplan/reelplan/internal/repository"
)

// maxDocumentBytes bounds an individual document payload.
const maxDocumentBytes = 64 << 10

// RecordService defines the interface for document operations required
// by the RecordHandler.
type RecordService interface {
	// Write upserts a calendar document for the owner.
	Write(ctx context.Context, owner, docID string, data json.RawMessage) error
	// List fetches all of the owner's calendar documents.
	List(ctx context.Context, owner string) ([]repository.Document, error)
	// Delete tombstones a calendar document.
	Delete(ctx context.Context, owner, docID string) error
}

// RecordHandler handles HTTP requests for owner-scoped calendar
// documents. Every route verifies that the authenticated user matches
// the {owner} path segment.
type RecordHandler struct {
	// Records performs the underlying document operations.
	Records RecordService
}

// owner extracts and authorizes the {owner} path parameter. Returns ""
// after writing the error response when the caller is not the owner.
func (h *RecordHandler) owner(w http.ResponseWriter, r *http.Request) string {
	owner := chi.URLParam(r, "owner")
	if owner == "" || middleware.GetUserIDFromContext(r.Context()) != owner {
		http.Error(w, "forbidden", http.StatusForbidden)
		return ""
	}
	return owner
}

// Put handles PUT /api/users/{owner}/calendar/{docID}.
func (h *RecordHandler) Put(w http.ResponseWriter, r *http.Request) {
	owner := h.owner(w, r)
	if owner == "" {
		return
	}
	docID := chi.URLParam(r, "docID")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil || len(body) == 0 || len(body) > maxDocumentBytes || !json.Valid(body) {
		http.Error(w, "invalid document", http.StatusBadRequest)
		return
	}

	if err := h.Records.Write(r.Context(), owner, docID, body); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// List handles GET /api/users/{owner}/calendar.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := h.owner(w, r)
	if owner == "" {
		return
	}

	docs, err := h.Records.List(r.Context(), owner)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// Delete handles DELETE /api/users/{owner}/calendar/{docID}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := h.owner(w, r)
	if owner == "" {
		return
	}
	docID := chi.URLParam(r, "docID")

	if err := h.Records.Delete(r.Context(), owner, docID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
