package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dstanton/corkboard/internal/domain"
	"github.com/dstanton/corkboard/internal/service"
)

// PositionHandler handles the drag-reposition endpoint. It deliberately skips
// the full note form validation: only the canvas coordinates ever change, so
// the payload stays minimal for frequent drag events.
type PositionHandler struct {
	notes *service.NoteService
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(notes *service.NoteService) *PositionHandler {
	return &PositionHandler{notes: notes}
}

// HandleUpdatePosition moves a note to new canvas coordinates. Malformed
// note_id, x, or y values are rejected with 400 rather than stored raw; a
// missing or non-owned note is 404. Every failure body is {"status":"error"}.
// POST /update-position/
func (h *PositionHandler) HandleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeStatusError(w, http.StatusBadRequest)
		return
	}

	noteID, err := strconv.ParseInt(r.PostFormValue("note_id"), 10, 64)
	if err != nil {
		writeStatusError(w, http.StatusBadRequest)
		return
	}
	x, err := strconv.Atoi(r.PostFormValue("x"))
	if err != nil {
		writeStatusError(w, http.StatusBadRequest)
		return
	}
	y, err := strconv.Atoi(r.PostFormValue("y"))
	if err != nil {
		writeStatusError(w, http.StatusBadRequest)
		return
	}

	if err := h.notes.UpdatePosition(r.Context(), user.ID, noteID, x, y); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeStatusError(w, http.StatusNotFound)
			return
		}
		slog.Error("update note position", "error", err)
		writeStatusError(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeStatusError(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]string{"status": "error"})
}
