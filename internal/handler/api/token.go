// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/service"
)

// TokenHandler issues API access tokens.
type TokenHandler struct {
	users  *service.UserService
	tokens *auth.TokenManager
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(db *sql.DB, policy auth.Policy, tokens *auth.TokenManager) *TokenHandler {
	return &TokenHandler{
		users:  service.NewUserService(db, policy),
		tokens: tokens,
	}
}

// tokenResponse is the issued token envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles POST /token: a username/password form exchanged for a
// bearer token.
func (h *TokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Invalid request payload")
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		WriteError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	user, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	token, err := h.tokens.GenerateToken(user.Username)
	if err != nil {
		slog.Error("generating token", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
