// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"

	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/service"
)

// QuotesHandler serves the quote endpoints. Every route is admin-only,
// enforced in the service layer.
type QuotesHandler struct {
	quotes *service.QuoteService
}

// NewQuotesHandler creates a new QuotesHandler.
func NewQuotesHandler(db *sql.DB) *QuotesHandler {
	return &QuotesHandler{quotes: service.NewQuoteService(db)}
}

type quoteRequest struct {
	Author    string `json:"author" validate:"required"`
	BookTitle string `json:"book_title" validate:"required"`
	Quote     string `json:"quote" validate:"required"`
}

// List handles GET /api/v1/quotes/.
func (h *QuotesHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.List(r.Context(), middleware.GetPrincipal(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quotes)
}

// Get handles GET /api/v1/quotes/{id}/.
func (h *QuotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	quote, err := h.quotes.Get(r.Context(), middleware.GetPrincipal(r), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// Create handles POST /api/v1/quotes/.
func (h *QuotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	quote, err := h.quotes.Create(r.Context(), middleware.GetPrincipal(r), service.QuoteInput{
		Author:    req.Author,
		BookTitle: req.BookTitle,
		Quote:     req.Quote,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// Delete handles DELETE /api/v1/quotes/{id}/.
func (h *QuotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err := h.quotes.Delete(r.Context(), middleware.GetPrincipal(r), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
