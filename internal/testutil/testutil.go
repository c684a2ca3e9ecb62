// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the bouquins project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/dummyops/bouquins/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "bouquins-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

// SeededDB creates a test database carrying the bootstrap admin and the demo
// content (users donald/daisy/loulou/louloute, eight books, seven comments).
func SeededDB(t *testing.T, password string) (*sql.DB, func()) {
	t.Helper()

	db, cleanup := TestDB(t)
	ctx := context.Background()

	if err := store.Seed(ctx, db, store.AdminBootstrap{
		Login:    "admin",
		Email:    "admin@localhost.fr",
		Password: password,
	}); err != nil {
		cleanup()
		t.Fatalf("Seed: %v", err)
	}
	if err := store.SeedDemo(ctx, db, password); err != nil {
		cleanup()
		t.Fatalf("SeedDemo: %v", err)
	}

	return db, cleanup
}
