// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/captcha"
	"github.com/dummyops/bouquins/internal/config"
	"github.com/dummyops/bouquins/internal/handler"
	"github.com/dummyops/bouquins/internal/handler/api"
	"github.com/dummyops/bouquins/internal/jobs"
	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/render"
	"github.com/dummyops/bouquins/internal/secrets"
	"github.com/dummyops/bouquins/internal/session"
	"github.com/dummyops/bouquins/internal/store"
	"github.com/dummyops/bouquins/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "bouquins - book blog server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOUQUINS_SESSION_SECRET   Session signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOUQUINS_JWT_SECRET       API token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOUQUINS_ADMIN_PASSWORD   Bootstrap admin password (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOUQUINS_DB_PATH          SQLite database path (default: ./data/bouquins.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOUQUINS_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOUQUINS_SCOPE            Scope: production|development|test (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOUQUINS_BROKER_URL       NATS broker URL (default: nats://localhost:4222)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("bouquins %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure working directories exist
	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.AdminBootstrap{
		Login:    cfg.AdminLogin,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	if cfg.DoSeed {
		if cfg.TestUserPassword == "" {
			return errors.New("BOUQUINS_DO_SEED requires BOUQUINS_TEST_USER_PWD")
		}
		if err := store.SeedDemo(ctx, db, cfg.TestUserPassword); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
		slog.Info("demo content seeded")
	}

	// Credential material: files in production scope, env everywhere else
	secretSource := secrets.New(cfg.SecretsDir, cfg.IsProduction())
	captchaSecret := secretSource.GetOr("BOUQUINS_CAPTCHA_SECRET", cfg.CaptchaSecret)

	sessionManager := session.New(db, time.Duration(cfg.SessionTTLHours)*time.Hour, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	policy := auth.Policy{
		MinLength:  cfg.PasswordMinLength,
		MaxLength:  cfg.PasswordMaxLength,
		MinDigits:  cfg.PasswordMinDigits,
		MinSpecial: cfg.PasswordMinSpecial,
	}

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	if err != nil {
		return fmt.Errorf("initializing token manager: %w", err)
	}

	verifier := captcha.New(captchaSecret, cfg.CaptchaVerifyURL)
	if cfg.CaptchaEnabled() {
		slog.Info("captcha verification enabled")
	} else {
		slog.Warn("captcha verification disabled, no secret configured")
	}

	publisher, err := jobs.NewPublisher(cfg.BrokerURL, logger)
	if err != nil {
		return fmt.Errorf("connecting job broker: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("closing job publisher", "error", err)
		}
	}()
	slog.Info("job broker connected", "url", cfg.BrokerURL)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	loginProtection := middleware.LoginProtection(0.5, 5)
	bearerAuth := middleware.BearerAuth(tokenManager, db)

	authHandler := handler.NewAuthHandler(db, policy, renderer, sessionManager, verifier, cfg.CaptchaSiteKey)
	booksHandler := handler.NewBooksHandler(db, renderer, sessionManager, cfg.UploadsDir, int64(cfg.PageSize), int64(cfg.MaxHome))
	categoriesHandler := handler.NewCategoriesHandler(db, renderer, sessionManager)
	usersHandler := handler.NewUsersHandler(db, policy, renderer)
	quotesHandler := handler.NewQuotesHandler(db, renderer, sessionManager)
	statsHandler := handler.NewStatsHandler(db, renderer)

	tokenHandler := api.NewTokenHandler(db, policy, tokenManager)
	apiBooks := api.NewBooksHandler(db)
	apiCategories := api.NewCategoriesHandler(db)
	apiComments := api.NewCommentsHandler(db)
	apiQuotes := api.NewQuotesHandler(db)
	apiUsers := api.NewUsersHandler(db, policy)
	apiRegister := api.NewRegisterHandler(db, policy)
	apiDownload := api.NewDownloadHandler(db, policy, publisher)

	// Browser surface: session, CSRF and a request body cap
	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.MaxBytes(handler.MaxUploadBytes + 64*1024))

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, handler.RouteHome, http.StatusSeeOther)
		})

		r.Group(func(r chi.Router) {
			r.Use(loginProtection)
			authHandler.RegisterRoutes(r)
		})

		booksHandler.RegisterRoutes(r, middleware.RequireAuth)
		categoriesHandler.RegisterRoutes(r, middleware.RequireAdmin)
		usersHandler.RegisterRoutes(r, middleware.RequireAuth, middleware.RequireAdmin)
		quotesHandler.RegisterRoutes(r, middleware.RequireAdmin)
		statsHandler.RegisterRoutes(r)
	})

	// Token issuance, rate limited like the login form
	r.With(loginProtection).Post("/token", tokenHandler.Token)
	r.With(loginProtection).Post("/api/v1/token", tokenHandler.Token)

	// JSON API surface: bearer token only
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(bearerAuth)

		r.Post("/register/", apiRegister.Register)

		r.Get("/books/", apiBooks.List)
		r.Post("/books/", apiBooks.Create)
		r.Get("/books/download/", apiDownload.Download)
		r.Get("/books/starred/", apiBooks.ListStarred)
		r.Get("/books/{id}/", apiBooks.Get)
		r.Put("/books/{id}/", apiBooks.Update)
		r.Patch("/books/{id}/", apiBooks.Patch)
		r.Delete("/books/{id}/", apiBooks.Delete)
		r.Post("/books/{id}/starred/", apiBooks.Star)
		r.Delete("/books/{id}/starred/", apiBooks.Unstar)

		r.Get("/books/categories/", apiCategories.List)
		r.Post("/books/categories/", apiCategories.Create)
		r.Get("/books/categories/{id}/", apiCategories.Get)
		r.Put("/books/categories/{id}/", apiCategories.Update)
		r.Delete("/books/categories/{id}/", apiCategories.Delete)

		r.Get("/books/comments/all/", apiComments.ListAll)
		r.Post("/books/comments/", apiComments.Create)
		r.Get("/books/comments/{id}/", apiComments.Get)
		r.Put("/books/comments/{id}/", apiComments.Update)
		r.Delete("/books/comments/{id}/", apiComments.Delete)
		r.Get("/books/{book_id}/comments/", apiComments.ListByBook)
		r.Get("/books/{book_id}/comments/{id}/", apiComments.Get)
		r.Put("/books/{book_id}/comments/{id}/", apiComments.Update)
		r.Delete("/books/{book_id}/comments/{id}/", apiComments.Delete)

		r.Get("/quotes/", apiQuotes.List)
		r.Post("/quotes/", apiQuotes.Create)
		r.Get("/quotes/{id}/", apiQuotes.Get)
		r.Delete("/quotes/{id}/", apiQuotes.Delete)

		r.Get("/users/", apiUsers.List)
		r.Get("/users/me/", apiUsers.Me)
		r.Get("/users/{id}/", apiUsers.Get)
		r.Put("/users/{id}/", apiUsers.Update)
		r.Patch("/users/{id}/", apiUsers.Update)
		r.Delete("/users/{id}/", apiUsers.Delete)
		r.Put("/users/{id}/password/", apiUsers.SetPassword)
	})
	slog.Info("JSON API mounted at /api/v1")

	// Uploaded pictures from disk, everything else from the embedded assets
	uploadsHandler := http.StripPrefix("/static/img/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Handle("/static/img/*", uploadsHandler)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "scope", cfg.Scope)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
