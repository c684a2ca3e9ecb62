// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api implements the token-authenticated JSON surface under
// /api/v1/... over the same store as the browser handlers.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"

	"github.com/dummyops/bouquins/internal/service"
)

// validate checks request payload shapes. Shape failures surface as 422.
var validate = validator.New(validator.WithRequiredStructEnabled())

// errorBody is the JSON error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding json response", "error", err)
	}
}

// WriteError writes a JSON error with a detail message.
func WriteError(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, errorBody{Detail: detail})
}

// DecodeJSON parses and shape-validates a request payload. On failure it
// writes a 422 and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Invalid request payload")
		return false
	}
	if err := validate.Struct(v); err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// WriteServiceError maps a service error onto the API status taxonomy:
// ownership violations and semantic rejections surface as 401, role
// violations as 403, missing resources as 404.
func WriteServiceError(w http.ResponseWriter, err error) {
	var se *service.SemanticError
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrForbiddenRole):
		WriteError(w, http.StatusForbidden, "Insufficient privileges")
	case errors.Is(err, service.ErrNotOwner):
		WriteError(w, http.StatusUnauthorized, "Only the owner can do that")
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, service.ErrInactiveUser):
		WriteError(w, http.StatusBadRequest, "Inactive user")
	case errors.As(err, &se):
		WriteError(w, http.StatusUnauthorized, se.Detail)
	default:
		slog.Error("api internal error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
