package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dstanton/corkboard/internal/domain"
	"github.com/dstanton/corkboard/internal/repository/sqlite"
	"github.com/dstanton/corkboard/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func newTestDB(t *testing.T) *sqlite.DB {
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
	return db
}

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	return service.NewAuthService(db.Users(), testJWTSecret, 4)
}

func TestAuthService_Register_Success(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "newuser", "new@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.Username != "newuser" {
		t.Fatalf("expected username newuser, got %s", user.Username)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", user.Email)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "dupuser", "one@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = auth.Register(ctx, "dupuser", "two@example.com", "password456", "password456")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["username"] == "" {
		t.Fatalf("expected username field error, got %v", verr.Fields)
	}
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	auth := newTestAuthService(t)

	_, err := auth.Register(context.Background(), "user1", "u1@example.com", "password123", "different")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["password2"] == "" {
		t.Fatalf("expected password2 field error, got %v", verr.Fields)
	}
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	auth := newTestAuthService(t)

	_, err := auth.Register(context.Background(), "user1", "not-an-email", "password123", "password123")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["email"] == "" {
		t.Fatalf("expected email field error, got %v", verr.Fields)
	}
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	auth := newTestAuthService(t)

	_, err := auth.Register(context.Background(), "user1", "u1@example.com", "short", "short")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["password1"] == "" {
		t.Fatalf("expected password1 field error, got %v", verr.Fields)
	}
}

func TestAuthService_Register_OverlongPassword(t *testing.T) {
	auth := newTestAuthService(t)

	// bcrypt caps input at 72 bytes; anything longer must surface as a
	// field error rather than a hashing failure.
	long := strings.Repeat("p", 80)
	_, err := auth.Register(context.Background(), "user1", "u1@example.com", long, long)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["password1"] == "" {
		t.Fatalf("expected password1 field error, got %v", verr.Fields)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "loginuser", "login@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.Login(ctx, "loginuser", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != registered.ID {
		t.Fatalf("expected user ID %d from token, got %d", registered.ID, userID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "loginuser", "login@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err = auth.Login(ctx, "loginuser", "wrongpassword")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserSameError(t *testing.T) {
	auth := newTestAuthService(t)

	_, err := auth.Login(context.Background(), "nosuchuser", "password123")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	auth := newTestAuthService(t)

	_, err := auth.ValidateToken("not-a-token")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	db := newTestDB(t)
	authA := service.NewAuthService(db.Users(), "secret-a-secret-a-secret-a-secret-a", 4)
	authB := service.NewAuthService(db.Users(), "secret-b-secret-b-secret-b-secret-b", 4)
	ctx := context.Background()

	_, err := authA.Register(ctx, "user1", "u1@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := authA.Login(ctx, "user1", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := authB.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for token signed with other secret, got %v", err)
	}
}
