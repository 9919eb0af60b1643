package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dstanton/corkboard/internal/domain"
	"github.com/dstanton/corkboard/internal/service"
	"github.com/dstanton/corkboard/internal/view"
)

// NoteHandler handles the note list, create, update, and delete pages.
type NoteHandler struct {
	notes  *service.NoteService
	render *view.Renderer
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes *service.NoteService, render *view.Renderer) *NoteHandler {
	return &NoteHandler{notes: notes, render: render}
}

// HandleList renders the board with all of the user's notes.
// GET /
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	notes, err := h.notes.ListByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list notes", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, http.StatusOK, "note_list.html", view.ListData{
		Username: user.Username,
		Notes:    notes,
	})
}

// HandleCreateForm renders an empty note form.
// GET /create/
func (h *NoteHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	h.render.Render(w, http.StatusOK, "note_form.html", view.FormData{
		Username: user.Username,
		Heading:  "New note",
		Action:   "/create/",
		Values:   view.NoteFormValues{Color: domain.DefaultColor},
	})
}

// HandleCreate persists a new note for the user. Validation failures
// re-render the form with the submitted values and field messages; nothing
// is persisted.
// POST /create/
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	in, values, fieldErrs, err := noteInputFromForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if len(fieldErrs) == 0 {
		_, err = h.notes.Create(r.Context(), user.ID, in)
		if err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			slog.Error("create note", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		fieldErrs = verr.Fields
	}

	h.render.Render(w, http.StatusUnprocessableEntity, "note_form.html", view.FormData{
		Username: user.Username,
		Heading:  "New note",
		Action:   "/create/",
		Values:   values,
		Errors:   fieldErrs,
	})
}

// HandleEditForm renders the form pre-filled with an existing note. A note
// the user does not own renders the same 404 as a missing one.
// GET /update/{id}/
func (h *NoteHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	note, err := h.notes.GetForUser(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("get note for edit", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, http.StatusOK, "note_form.html", view.FormData{
		Username: user.Username,
		Heading:  "Edit note",
		Action:   "/update/" + strconv.FormatInt(note.ID, 10) + "/",
		Values: view.NoteFormValues{
			Title:   note.Title,
			Content: note.Content,
			Color:   note.Color,
			X:       note.XPosition,
			Y:       note.YPosition,
		},
	})
}

// HandleUpdate overwrites an existing note's fields.
// POST /update/{id}/
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	in, values, fieldErrs, err := noteInputFromForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if len(fieldErrs) == 0 {
		_, err = h.notes.Update(r.Context(), user.ID, id, in)
		if err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			slog.Error("update note", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		fieldErrs = verr.Fields
	}

	h.render.Render(w, http.StatusUnprocessableEntity, "note_form.html", view.FormData{
		Username: user.Username,
		Heading:  "Edit note",
		Action:   "/update/" + strconv.FormatInt(id, 10) + "/",
		Values:   values,
		Errors:   fieldErrs,
	})
}

// HandleDeleteConfirm renders the delete confirmation page without mutating
// anything.
// GET /delete/{id}/
func (h *NoteHandler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	note, err := h.notes.GetForUser(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("get note for delete", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, http.StatusOK, "note_confirm_delete.html", view.DeleteData{
		Username: user.Username,
		Note:     note,
	})
}

// HandleDelete deletes a note after explicit confirmation.
// POST /delete/{id}/
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.notes.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("delete note", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// noteInputFromForm parses the note form. Coordinate parse failures surface
// as field errors rather than being stored raw; a malformed request body is
// returned as an error for the handler to reject outright.
func noteInputFromForm(r *http.Request) (service.NoteInput, view.NoteFormValues, map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return service.NoteInput{}, view.NoteFormValues{}, nil, err
	}

	values := view.NoteFormValues{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
		Color:   r.PostFormValue("color"),
	}
	fieldErrs := make(map[string]string)

	x, err := formInt(r, "x")
	if err != nil {
		fieldErrs["x"] = "Position must be a whole number."
	}
	y, err := formInt(r, "y")
	if err != nil {
		fieldErrs["y"] = "Position must be a whole number."
	}
	values.X = x
	values.Y = y

	if len(fieldErrs) == 0 {
		fieldErrs = nil
	}

	return service.NoteInput{
		Title:   values.Title,
		Content: values.Content,
		Color:   values.Color,
		X:       x,
		Y:       y,
	}, values, fieldErrs, nil
}

// formInt reads an integer form field, treating absent or empty as zero.
func formInt(r *http.Request, name string) (int, error) {
	v := r.PostFormValue(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
