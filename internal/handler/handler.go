// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the server-rendered browser surface under
// /front/... and its auxiliary routes.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/render"
	"github.com/dummyops/bouquins/internal/service"
)

// principalOf returns the request's authenticated principal.
func principalOf(r *http.Request) model.Principal {
	return middleware.GetPrincipal(r)
}

// Routes used across handlers.
const (
	RouteHome  = "/front/home/"
	RouteLogin = "/login"
)

// urlID extracts the {id} URL parameter.
func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// renderError writes an error page with the given status.
func renderError(renderer *render.Renderer, w http.ResponseWriter, r *http.Request, status int, message string) {
	w.WriteHeader(status)
	err := renderer.Render(w, r, "error", render.TemplateData{
		Title:     http.StatusText(status),
		Principal: principalOf(r),
		Data: map[string]any{
			"Status":  status,
			"Message": message,
		},
	})
	if err != nil {
		slog.Error("render error page", "error", err)
	}
}

// serviceErrorStatus maps a service error to the browser status code.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrForbiddenRole):
		return http.StatusForbidden
	case service.IsSemantic(err), errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInactiveUser):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
