package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/dstanton/corkboard/internal/domain"
	"github.com/dstanton/corkboard/internal/service"
	"github.com/dstanton/corkboard/internal/view"
)

// AuthHandler handles signup, login, and logout.
type AuthHandler struct {
	auth         *service.AuthService
	limiter      *service.TokenBucket
	render       *view.Renderer
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, limiter *service.TokenBucket, render *view.Renderer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, render: render, cookieSecure: cookieSecure}
}

// HandleSignupForm renders the registration form.
// GET /signup/
func (h *AuthHandler) HandleSignupForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "signup.html", view.AuthData{})
}

// HandleSignup processes a registration submission. On success the new user
// is signed in immediately and sent to their note list.
// POST /signup/
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	values := map[string]string{
		"username": r.PostFormValue("username"),
		"email":    r.PostFormValue("email"),
	}

	user, err := h.auth.Register(r.Context(),
		values["username"], values["email"],
		r.PostFormValue("password1"), r.PostFormValue("password2"))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.render.Render(w, http.StatusUnprocessableEntity, "signup.html", view.AuthData{
				Values: values,
				Errors: verr.Fields,
			})
			return
		}
		slog.Error("register user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	token, err := h.auth.SessionToken(user)
	if err != nil {
		slog.Error("issue session token after signup", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLoginForm renders the login form, carrying through an optional
// next destination.
// GET /login/
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "login.html", view.AuthData{
		Next: r.URL.Query().Get("next"),
	})
}

// HandleLogin processes a login submission. Unknown username and wrong
// password produce the same notice.
// POST /login/
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	next := r.PostFormValue("next")

	token, err := h.auth.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.render.Render(w, http.StatusUnauthorized, "login.html", view.AuthData{
				Notice: "Invalid username or password.",
				Next:   next,
				Values: map[string]string{"username": username},
			})
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.setAuthCookie(w, token)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// HandleLogout clears the session cookie and returns to the login page.
// Registered for POST only, so a plain link-follow cannot log anyone out.
// POST /logout/
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours, matching token expiry
	})
}

// safeNext confines post-login redirects to site-local paths.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
