// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dummyops/bouquins/internal/config"
	"github.com/dummyops/bouquins/internal/jobs"
	"github.com/dummyops/bouquins/internal/mail"
	"github.com/dummyops/bouquins/internal/pdf"
	"github.com/dummyops/bouquins/internal/scheduler"
	"github.com/dummyops/bouquins/internal/secrets"
	"github.com/dummyops/bouquins/internal/service"
	"github.com/dummyops/bouquins/internal/store"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker error", "error", err)
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

	if err := os.MkdirAll(cfg.PDFDir, 0755); err != nil {
		return fmt.Errorf("creating pdf directory: %w", err)
	}

	slog.Info("opening database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	secretSource := secrets.New(cfg.SecretsDir, cfg.IsProduction())
	mailAPIKey := secretSource.GetOr("BOUQUINS_MAIL_API_KEY", cfg.MailAPIKey)

	if mailAPIKey == "" || cfg.MailAPIURL == "" {
		slog.Warn("mail provider not configured, jobs will report send failures")
	}
	mailer := mail.New(mailAPIKey, cfg.MailAPIURL, cfg.MailFrom)

	renderer := pdf.New(cfg.PDFDir, cfg.PDFFileStem, cfg.StaticImgDir,
		filepath.Join(cfg.StaticImgDir, "dummy-ops.png"))

	sched := scheduler.New(cfg.PDFDir, cfg.PDFFileStem, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	subscriber, err := jobs.NewSubscriber(cfg.BrokerURL, logger)
	if err != nil {
		return fmt.Errorf("connecting job broker: %w", err)
	}
	defer func() {
		if err := subscriber.Close(); err != nil {
			slog.Error("closing job subscriber", "error", err)
		}
	}()
	slog.Info("job broker connected", "url", cfg.BrokerURL, "topic", jobs.Topic)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := jobs.NewWorker(service.NewBookService(db), renderer, mailer, logger)
	slog.Info("worker started")
	return worker.Run(ctx, subscriber)
}
