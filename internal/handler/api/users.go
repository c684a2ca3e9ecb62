// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/service"
)

// UsersHandler serves the account endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, policy auth.Policy) *UsersHandler {
	return &UsersHandler{users: service.NewUserService(db, policy)}
}

// userResponse is the account envelope. The password hash never leaves the
// service layer through this surface.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Disabled bool   `json:"disabled"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Disabled: u.Disabled,
	}
}

type userUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Disabled *bool   `json:"disabled"`
}

type passwordRequest struct {
	Password      string `json:"password" validate:"required"`
	PasswordCheck string `json:"password_check" validate:"required"`
}

// Me handles GET /api/v1/users/me/.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	user, err := h.users.Get(r.Context(), principal.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// List handles GET /api/v1/users/. Admin only.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), middleware.GetPrincipal(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	WriteJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/users/{id}/.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// Update handles PUT and PATCH /api/v1/users/{id}/. Both accept partial
// payloads; absent fields keep their stored value.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var req userUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), middleware.GetPrincipal(r), id, service.UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Disabled: req.Disabled,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// SetPassword handles PUT /api/v1/users/{id}/password/.
func (h *UsersHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var req passwordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.users.SetPassword(r.Context(), middleware.GetPrincipal(r), id, req.Password, req.PasswordCheck); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, errorBody{Detail: "Password updated"})
}

// Delete handles DELETE /api/v1/users/{id}/.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err := h.users.Delete(r.Context(), middleware.GetPrincipal(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
