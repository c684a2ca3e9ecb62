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

// QuotesHandler handles the admin quote pages.
type QuotesHandler struct {
	quotes         *service.QuoteService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewQuotesHandler creates a new QuotesHandler.
func NewQuotesHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *QuotesHandler {
	return &QuotesHandler{
		quotes:         service.NewQuoteService(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// RegisterRoutes mounts the quote routes. All of them are admin-only.
func (h *QuotesHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/quotes/", h.List)
		r.Post("/quotes/add/", h.Add)
		r.Post("/quotes/{id}/delete/", h.Delete)
	})
}

// List shows all quotes.
func (h *QuotesHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.List(r.Context(), principalOf(r))
	if err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Accès refusé.")
		return
	}

	err = h.renderer.Render(w, r, "quotes", render.TemplateData{
		Title:     "Citations",
		Principal: principalOf(r),
		Data:      map[string]any{"Quotes": quotes},
	})
	if err != nil {
		slog.Error("render quotes", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Add creates a quote.
func (h *QuotesHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, http.StatusBadRequest, "Formulaire invalide.")
		return
	}

	_, err := h.quotes.Create(r.Context(), principalOf(r), service.QuoteInput{
		Author:    r.FormValue("author"),
		BookTitle: r.FormValue("book_title"),
		Quote:     r.FormValue("quote"),
	})
	if err != nil {
		if service.IsSemantic(err) {
			session.Flash(h.sessionManager, r, err.Error())
			http.Redirect(w, r, "/quotes/", http.StatusSeeOther)
			return
		}
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Création impossible.")
		return
	}

	session.Flash(h.sessionManager, r, "Citation ajoutée.")
	http.Redirect(w, r, "/quotes/", http.StatusSeeOther)
}

// Delete removes a quote.
func (h *QuotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Citation introuvable.")
		return
	}

	if err := h.quotes.Delete(r.Context(), principalOf(r), id); err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Suppression impossible.")
		return
	}

	session.Flash(h.sessionManager, r, "Citation supprimée.")
	http.Redirect(w, r, "/quotes/", http.StatusSeeOther)
}
