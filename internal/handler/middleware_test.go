package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dstanton/corkboard/internal/handler"
	"github.com/dstanton/corkboard/internal/repository/sqlite"
	"github.com/dstanton/corkboard/internal/service"
	"github.com/dstanton/corkboard/internal/view"
)

const testJWTSecret = "test-secret-for-handler-tests"

func newTestServices(t *testing.T) (*service.AuthService, *service.NoteService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Cost 4 keeps bcrypt fast in tests.
	return service.NewAuthService(db.Users(), testJWTSecret, 4),
		service.NewNoteService(db.Notes())
}

func newTestMux(t *testing.T) (*http.ServeMux, *service.AuthService, *service.NoteService) {
	t.Helper()
	auth, notes := newTestServices(t)
	render, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	// Generous limiter so tests never trip it unless they mean to.
	limiter := service.NewTokenBucket(100, 100)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, notes, limiter, render, false)
	return mux, auth, notes
}

func TestRequireAuth_ValidToken(t *testing.T) {
	auth, _ := newTestServices(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "validuser", "valid@example.com", "password123", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := auth.Login(ctx, "validuser", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := handler.UserFromContext(r.Context()); user != nil {
			gotUser = user.Username
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "validuser" {
		t.Fatalf("expected user 'validuser', got %q", gotUser)
	}
}

func TestRequireAuth_MissingCookieRedirects(t *testing.T) {
	auth, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login/?next=%2F" {
		t.Fatalf("expected redirect to /login/?next=%%2F, got %s", loc)
	}
}

func TestRequireAuth_PreservesDestination(t *testing.T) {
	auth, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if loc := w.Header().Get("Location"); loc != "/login/?next=%2Fcreate%2F" {
		t.Fatalf("expected next to preserve /create/, got %s", loc)
	}
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	auth, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.SecurityHeaders(inner).ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
}
