// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dummyops/bouquins/internal/render"
	"github.com/dummyops/bouquins/internal/service"
	"github.com/dummyops/bouquins/internal/store"
)

// StatsHandler handles the stats tables.
type StatsHandler struct {
	stats    *service.StatsService
	renderer *render.Renderer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(db *sql.DB, renderer *render.Renderer) *StatsHandler {
	return &StatsHandler{
		stats:    service.NewStatsService(db),
		renderer: renderer,
	}
}

// RegisterRoutes mounts the stats routes.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/books/categories/stats/", h.BooksPerCategory)
	r.Get("/books/users/stats/", h.BooksPerUser)
}

// BooksPerCategory shows the book count per category.
func (h *StatsHandler) BooksPerCategory(w http.ResponseWriter, r *http.Request) {
	counts, err := h.stats.BooksPerCategory(r.Context())
	if err != nil {
		slog.Error("stats per category", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	h.renderStats(w, r, "Livres par catégorie", "Catégorie", counts)
}

// BooksPerUser shows the publication count per user.
func (h *StatsHandler) BooksPerUser(w http.ResponseWriter, r *http.Request) {
	counts, err := h.stats.BooksPerUser(r.Context())
	if err != nil {
		slog.Error("stats per user", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	h.renderStats(w, r, "Livres par utilisateur", "Utilisateur", counts)
}

func (h *StatsHandler) renderStats(w http.ResponseWriter, r *http.Request, title, labelHeader string, counts []store.LabelCount) {
	err := h.renderer.Render(w, r, "stats", render.TemplateData{
		Title:     title,
		Principal: principalOf(r),
		Data: map[string]any{
			"LabelHeader": labelHeader,
			"Counts":      counts,
		},
	})
	if err != nil {
		slog.Error("render stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
