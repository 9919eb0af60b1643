package handler

import (
	"net/http"

	"github.com/dstanton/corkboard/internal/service"
	"github.com/dstanton/corkboard/internal/view"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Logout is
// registered for POST only, so navigating a link can never end a session.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, notes *service.NoteService, limiter *service.TokenBucket, render *view.Renderer, cookieSecure bool) {
	authH := NewAuthHandler(auth, limiter, render, cookieSecure)
	noteH := NewNoteHandler(notes, render)
	posH := NewPositionHandler(notes)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("GET /signup/{$}", authH.HandleSignupForm)
	mux.HandleFunc("POST /signup/{$}", authH.HandleSignup)
	mux.HandleFunc("GET /login/{$}", authH.HandleLoginForm)
	mux.HandleFunc("POST /login/{$}", authH.HandleLogin)
	mux.HandleFunc("POST /logout/{$}", authH.HandleLogout)

	protected := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(auth, fn)
	}

	mux.Handle("GET /{$}", protected(noteH.HandleList))
	mux.Handle("GET /create/{$}", protected(noteH.HandleCreateForm))
	mux.Handle("POST /create/{$}", protected(noteH.HandleCreate))
	mux.Handle("GET /update/{id}/{$}", protected(noteH.HandleEditForm))
	mux.Handle("POST /update/{id}/{$}", protected(noteH.HandleUpdate))
	mux.Handle("GET /delete/{id}/{$}", protected(noteH.HandleDeleteConfirm))
	mux.Handle("POST /delete/{id}/{$}", protected(noteH.HandleDelete))
	mux.Handle("POST /update-position/{$}", protected(posH.HandleUpdatePosition))
}
