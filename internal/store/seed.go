// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/model"
)

// BookCategories is the fixed startup list of categories.
var BookCategories = []string{
	"politique",
	"histoire",
	"roman",
	"art",
	"strategie",
	"polar",
	"psychologie",
	"management",
}

// AdminBootstrap holds the administrator credentials used at first startup.
type AdminBootstrap struct {
	Login    string
	Email    string
	Password string
}

// Seed creates the administrator account and the startup categories if they
// do not exist yet. The administrator always ends up with id 1 because it is
// the first row ever inserted.
func Seed(ctx context.Context, db *sql.DB, admin AdminBootstrap) error {
	queries := New(db)

	_, err := queries.GetUserByUsername(ctx, strings.ToLower(admin.Login))
	switch {
	case err == nil:
		slog.Info("admin user already exists, skipping seed")
	case errors.Is(err, sql.ErrNoRows):
		passwordHash, err := auth.HashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}

		user, err := queries.CreateUser(ctx, CreateUserParams{
			Username:       strings.ToLower(admin.Login),
			Email:          strings.ToLower(admin.Email),
			HashedPassword: passwordHash,
			Role:           model.RoleAdmin,
			Disabled:       false,
			CreatedAt:      time.Now(),
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
		slog.Info("created administrator", "id", user.ID, "username", user.Username)
	default:
		return fmt.Errorf("checking for admin user: %w", err)
	}

	count, err := queries.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count == 0 {
		for _, title := range BookCategories {
			if _, err := queries.CreateCategory(ctx, title); err != nil {
				return fmt.Errorf("creating category %q: %w", title, err)
			}
		}
		slog.Info("seeded book categories", "count", len(BookCategories))
	}

	return nil
}
