// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/dummyops/bouquins/internal/render"
	"github.com/dummyops/bouquins/internal/service"
	"github.com/dummyops/bouquins/internal/session"
)

// CategoriesHandler handles the category pages.
type CategoriesHandler struct {
	categories     *service.CategoryService
	books          *service.BookService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *CategoriesHandler {
	return &CategoriesHandler{
		categories:     service.NewCategoryService(db),
		books:          service.NewBookService(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// RegisterRoutes mounts the category routes.
func (h *CategoriesHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/front/books/categories/", h.List)
	r.Get("/front/books/categories/{id}/", h.Books)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/front/books/categories/add/", h.Add)
		r.Post("/front/books/categories/{id}/delete/", h.Delete)
	})
}

// List shows all categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		slog.Error("list categories", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	err = h.renderer.Render(w, r, "categories", render.TemplateData{
		Title:     "Catégories",
		Principal: principalOf(r),
		Data:      map[string]any{"Categories": categories},
	})
	if err != nil {
		slog.Error("render categories", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Books shows the books of one category.
func (h *CategoriesHandler) Books(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Catégorie introuvable.")
		return
	}
	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Catégorie introuvable.")
		return
	}
	books, err := h.books.ListByCategory(r.Context(), category.ID)
	if err != nil {
		slog.Error("category books", "category_id", category.ID, "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	err = h.renderer.Render(w, r, "category_books", render.TemplateData{
		Title:     "Catégorie " + category.Title,
		Principal: principalOf(r),
		Data: map[string]any{
			"Category": category,
			"Books":    books,
		},
	})
	if err != nil {
		slog.Error("render category books", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Add creates a category.
func (h *CategoriesHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, http.StatusBadRequest, "Formulaire invalide.")
		return
	}

	_, err := h.categories.Create(r.Context(), principalOf(r), r.FormValue("title"))
	if err != nil {
		if service.IsSemantic(err) {
			session.Flash(h.sessionManager, r, err.Error())
		} else {
			slog.Error("create category", "error", err)
			session.Flash(h.sessionManager, r, "Création impossible.")
		}
		http.Redirect(w, r, "/front/books/categories/", http.StatusSeeOther)
		return
	}

	session.Flash(h.sessionManager, r, "Catégorie créée.")
	http.Redirect(w, r, "/front/books/categories/", http.StatusSeeOther)
}

// Delete removes an empty category.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Catégorie introuvable.")
		return
	}

	if err := h.categories.Delete(r.Context(), principalOf(r), id); err != nil {
		if service.IsSemantic(err) {
			session.Flash(h.sessionManager, r, err.Error())
			http.Redirect(w, r, "/front/books/categories/", http.StatusSeeOther)
			return
		}
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Suppression impossible.")
		return
	}

	session.Flash(h.sessionManager, r, "Catégorie supprimée.")
	http.Redirect(w, r, "/front/books/categories/", http.StatusSeeOther)
}
