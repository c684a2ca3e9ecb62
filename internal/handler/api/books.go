// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/service"
)

// BooksHandler serves the book endpoints.
type BooksHandler struct {
	books   *service.BookService
	starred *service.StarredService
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(db *sql.DB) *BooksHandler {
	return &BooksHandler{
		books:   service.NewBookService(db),
		starred: service.NewStarredService(db),
	}
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

// bookRequest is the create/full-update payload.
type bookRequest struct {
	Title             string `json:"title" validate:"required"`
	Summary           string `json:"summary" validate:"required"`
	Content           string `json:"content" validate:"required"`
	Author            string `json:"author" validate:"required"`
	Category          string `json:"category" validate:"required"`
	YearOfPublication int64  `json:"year_of_publication" validate:"required"`
}

// bookPatchRequest is the partial-update payload.
type bookPatchRequest struct {
	Title             *string `json:"title"`
	Summary           *string `json:"summary"`
	Content           *string `json:"content"`
	Author            *string `json:"author"`
	Category          *string `json:"category"`
	YearOfPublication *int64  `json:"year_of_publication"`
}

// List handles GET /api/v1/books/.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, books)
}

// Get handles GET /api/v1/books/{id}/.
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, book)
}

// Create handles POST /api/v1/books/.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	book, err := h.books.Create(r.Context(), middleware.GetPrincipal(r), service.BookInput{
		Title:             req.Title,
		Summary:           req.Summary,
		Content:           req.Content,
		Author:            req.Author,
		Category:          req.Category,
		YearOfPublication: req.YearOfPublication,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, book)
}

// Update handles PUT /api/v1/books/{id}/.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var req bookRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	book, err := h.books.Update(r.Context(), middleware.GetPrincipal(r), id, service.BookInput{
		Title:             req.Title,
		Summary:           req.Summary,
		Content:           req.Content,
		Author:            req.Author,
		Category:          req.Category,
		YearOfPublication: req.YearOfPublication,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, book)
}

// Patch handles PATCH /api/v1/books/{id}/.
func (h *BooksHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var req bookPatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	book, err := h.books.Patch(r.Context(), middleware.GetPrincipal(r), id, service.BookPatch{
		Title:             req.Title,
		Summary:           req.Summary,
		Content:           req.Content,
		Author:            req.Author,
		Category:          req.Category,
		YearOfPublication: req.YearOfPublication,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/v1/books/{id}/.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err := h.books.Delete(r.Context(), middleware.GetPrincipal(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListStarred handles GET /api/v1/books/starred/.
func (h *BooksHandler) ListStarred(w http.ResponseWriter, r *http.Request) {
	books, err := h.starred.ListBooks(r.Context(), middleware.GetPrincipal(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, books)
}

// Star handles POST /api/v1/books/{id}/starred/.
func (h *BooksHandler) Star(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	starred, err := h.starred.Star(r.Context(), middleware.GetPrincipal(r), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, starred)
}

// Unstar handles DELETE /api/v1/books/{id}/starred/.
func (h *BooksHandler) Unstar(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err := h.starred.Unstar(r.Context(), middleware.GetPrincipal(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
