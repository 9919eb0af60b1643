package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dstanton/corkboard/internal/config"
	"github.com/dstanton/corkboard/internal/handler"
	"github.com/dstanton/corkboard/internal/repository/sqlite"
	"github.com/dstanton/corkboard/internal/service"
	"github.com/dstanton/corkboard/internal/view"
	"github.com/lmittmann/tint"
)

// Credential endpoints share one per-IP bucket: 10 attempts, refilling one
// every two seconds.
const (
	loginRatePerSec = 0.5
	loginBurst      = 10
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.App.LogLevel)
	var logHandler slog.Handler
	if cfg.App.Pretty {
		logHandler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(logHandler))

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	renderer, err := view.New()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(db.Users(), cfg.Auth.JWTSecret, cfg.Auth.BcryptCost)
	noteService := service.NewNoteService(db.Notes())
	limiter := service.NewTokenBucket(loginRatePerSec, loginBurst)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, noteService, limiter, renderer, cfg.Auth.CookieSecure)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
