// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/render"
	"github.com/dummyops/bouquins/internal/service"
)

// UsersHandler handles the user pages.
type UsersHandler struct {
	users    *service.UserService
	books    *service.BookService
	renderer *render.Renderer
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, policy auth.Policy, renderer *render.Renderer) *UsersHandler {
	return &UsersHandler{
		users:    service.NewUserService(db, policy),
		books:    service.NewBookService(db),
		renderer: renderer,
	}
}

// RegisterRoutes mounts the user routes.
func (h *UsersHandler) RegisterRoutes(r chi.Router, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	r.With(requireAdmin).Get("/users/", h.List)
	r.With(requireAuth).Get("/users/{id}/", h.Detail)
}

// List shows all accounts. Admin only.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), principalOf(r))
	if err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Accès refusé.")
		return
	}

	err = h.renderer.Render(w, r, "users", render.TemplateData{
		Title:     "Utilisateurs",
		Principal: principalOf(r),
		Data:      map[string]any{"Users": users},
	})
	if err != nil {
		slog.Error("render users", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Detail shows one account and its publications.
func (h *UsersHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Utilisateur introuvable.")
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Utilisateur introuvable.")
		return
	}
	books, err := h.books.ListByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("user books", "user_id", user.ID, "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	err = h.renderer.Render(w, r, "user", render.TemplateData{
		Title:     user.Username,
		Principal: principalOf(r),
		Data: map[string]any{
			"User":  user,
			"Books": books,
		},
	})
	if err != nil {
		slog.Error("render user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
