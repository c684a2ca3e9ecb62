// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"

	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/service"
)

// CategoriesHandler serves the book category endpoints.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(db *sql.DB) *CategoriesHandler {
	return &CategoriesHandler{categories: service.NewCategoryService(db)}
}

type categoryRequest struct {
	Title string `json:"title" validate:"required"`
}

// List handles GET /api/v1/books/categories/.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, categories)
}

// Get handles GET /api/v1/books/categories/{id}/.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, category)
}

// Create handles POST /api/v1/books/categories/. Admin only.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	category, err := h.categories.Create(r.Context(), middleware.GetPrincipal(r), req.Title)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, category)
}

// Update handles PUT /api/v1/books/categories/{id}/. Admin only.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var req categoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	category, err := h.categories.Update(r.Context(), middleware.GetPrincipal(r), id, req.Title)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/v1/books/categories/{id}/. Admin only.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err := h.categories.Delete(r.Context(), middleware.GetPrincipal(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
