// Package view renders the application's HTML pages from templates embedded
// at build time. Each page template is parsed together with the shared base
// layout.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dstanton/corkboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = []string{
	"note_list.html",
	"note_form.html",
	"note_confirm_delete.html",
	"login.html",
	"signup.html",
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses all embedded page templates against the base layout.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// NoteFormValues carries submitted (or existing) field values back into the
// note form so failed validation never loses the user's input.
type NoteFormValues struct {
	Title   string
	Content string
	Color   string
	X       int
	Y       int
}

// ListData is the payload for the note list page.
type ListData struct {
	Username string
	Notes    []domain.Note
}

// FormData is the payload for the create/edit note form.
type FormData struct {
	Username string
	Heading  string
	Action   string
	Values   NoteFormValues
	Errors   map[string]string
}

// DeleteData is the payload for the delete confirmation page.
type DeleteData struct {
	Username string
	Note     *domain.Note
}

// AuthData is the payload for the login and signup pages. Username stays
// empty: these pages are only reached without a session.
type AuthData struct {
	Username string
	Notice   string
	Next     string
	Values   map[string]string
	Errors   map[string]string
}

// Render writes the named page with the given status code. Pages are rendered
// to a buffer first so a template error can still produce a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		slog.Error("render unknown page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("render page", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
