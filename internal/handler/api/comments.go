// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"

	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/service"
)

// CommentsHandler serves the comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler creates a new CommentsHandler.
func NewCommentsHandler(db *sql.DB) *CommentsHandler {
	return &CommentsHandler{comments: service.NewCommentService(db)}
}

type commentCreateRequest struct {
	BookID int64  `json:"book_id" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

type commentUpdateRequest struct {
	Text string `json:"text" validate:"required"`
}

// ListAll handles GET /api/v1/books/comments/all/.
func (h *CommentsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comments)
}

// ListByBook handles GET /api/v1/books/{book_id}/comments/.
func (h *CommentsHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := urlID(r, "book_id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	comments, err := h.comments.ListByBook(r.Context(), bookID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comments)
}

// Get handles GET /api/v1/books/comments/{id}/.
func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	comment, err := h.comments.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comment)
}

// Create handles POST /api/v1/books/comments/.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req commentCreateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	comment, err := h.comments.Create(r.Context(), middleware.GetPrincipal(r), req.BookID, req.Text)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comment)
}

// Update handles PUT /api/v1/books/comments/{id}/.
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var req commentUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	comment, err := h.comments.Update(r.Context(), middleware.GetPrincipal(r), id, req.Text)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/v1/books/comments/{id}/.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err := h.comments.Delete(r.Context(), middleware.GetPrincipal(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
