// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/service"
)

// RegisterHandler creates accounts over the API surface.
type RegisterHandler struct {
	users *service.UserService
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(db *sql.DB, policy auth.Policy) *RegisterHandler {
	return &RegisterHandler{users: service.NewUserService(db, policy)}
}

type registerRequest struct {
	Username      string `json:"username" validate:"required"`
	Email         string `json:"email" validate:"required"`
	Password      string `json:"password" validate:"required"`
	PasswordCheck string `json:"password_check" validate:"required"`
}

// Register handles POST /api/v1/register/.
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		PasswordCheck: req.PasswordCheck,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(user))
}
