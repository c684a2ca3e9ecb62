// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
)

// detailError is the JSON error body shared with the API handlers.
type detailError struct {
	Detail string `json:"detail"`
}

func writeBearerError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(detailError{Detail: detail})
}

// BearerAuth validates the Authorization header against the token manager
// and loads the matching account as the request principal. Disabled accounts
// are rejected outright.
func BearerAuth(tm *auth.TokenManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeBearerError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeBearerError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			username, err := tm.ValidateToken(parts[1])
			if err != nil {
				writeBearerError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			user, err := queries.GetUserByUsername(r.Context(), username)
			if errors.Is(err, sql.ErrNoRows) {
				writeBearerError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			if err != nil {
				writeBearerError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if user.Disabled {
				writeBearerError(w, http.StatusBadRequest, "Inactive user")
				return
			}

			ctx := WithPrincipal(r.Context(), model.Principal{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
				Disabled: user.Disabled,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
