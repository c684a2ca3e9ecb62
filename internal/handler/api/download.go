// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/jobs"
	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/service"
)

// DownloadHandler enqueues the PDF-and-email job for the calling user.
type DownloadHandler struct {
	users     *service.UserService
	publisher message.Publisher
}

// NewDownloadHandler creates a new DownloadHandler.
func NewDownloadHandler(db *sql.DB, policy auth.Policy, publisher message.Publisher) *DownloadHandler {
	return &DownloadHandler{
		users:     service.NewUserService(db, policy),
		publisher: publisher,
	}
}

// Download handles GET /api/v1/books/download/. It enqueues one job carrying
// the caller's email and acknowledges immediately; the worker does the
// rendering and the sending.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	user, err := h.users.Get(r.Context(), principal.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := jobs.Enqueue(h.publisher, user.Email); err != nil {
		slog.Error("enqueueing pdf job", "recipient", user.Email, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, errorBody{
		Detail: fmt.Sprintf("The books will be sent by email to %s", user.Email),
	})
}
