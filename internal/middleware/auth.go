// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization and request protection on both surfaces.
package middleware

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/session"
	"github.com/dummyops/bouquins/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyPrincipal carries the authenticated principal.
const ContextKeyPrincipal ContextKey = "principal"

// WithPrincipal returns a copy of ctx carrying the principal.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// GetPrincipal retrieves the principal from the request context. The zero
// value means anonymous.
func GetPrincipal(r *http.Request) model.Principal {
	p, _ := r.Context().Value(ContextKeyPrincipal).(model.Principal)
	return p
}

// LoadUser resolves the session cookie into a principal on the request
// context. A session whose client fingerprint no longer matches is
// destroyed. Requests without a valid session continue as anonymous.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			stored := sm.GetString(r.Context(), session.KeyFingerprint)
			current := session.Fingerprint(r)
			if subtle.ConstantTimeCompare([]byte(stored), []byte(current)) != 1 {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil || user.Disabled {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
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

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r).Anonymous() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin requests with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := GetPrincipal(r)
		if p.Anonymous() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !p.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MaxBytes caps the request body size. Uploads past the limit surface as
// 413 when the handler reads the body.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
