// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
)

// StarredService manages per-user book stars. Stars are strictly personal:
// even an admin cannot touch another user's stars.
type StarredService struct {
	queries *store.Queries
}

// NewStarredService creates a new StarredService.
func NewStarredService(db *sql.DB) *StarredService {
	return &StarredService{queries: store.New(db)}
}

// List returns the principal's starred rows.
func (s *StarredService) List(ctx context.Context, principal model.Principal) ([]model.Starred, error) {
	if principal.Anonymous() {
		return nil, ErrInvalidCredentials
	}
	return s.queries.ListStarredByUser(ctx, principal.ID)
}

// ListBooks returns the books the principal has starred.
func (s *StarredService) ListBooks(ctx context.Context, principal model.Principal) ([]model.Book, error) {
	starred, err := s.List(ctx, principal)
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0, len(starred))
	for _, star := range starred {
		book, err := s.queries.GetBookByID(ctx, star.BookID)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// IsStarred reports whether the principal has starred the book.
func (s *StarredService) IsStarred(ctx context.Context, principal model.Principal, bookID int64) (bool, error) {
	if principal.Anonymous() {
		return false, nil
	}
	_, err := s.queries.GetStarred(ctx, principal.ID, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Star marks a book as starred by the principal. Starring twice is a
// SemanticError.
func (s *StarredService) Star(ctx context.Context, principal model.Principal, bookID int64) (model.Starred, error) {
	if principal.Anonymous() {
		return model.Starred{}, ErrInvalidCredentials
	}
	if _, err := s.queries.GetBookByID(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Starred{}, ErrNotFound
		}
		return model.Starred{}, err
	}
	if _, err := s.queries.GetStarred(ctx, principal.ID, bookID); err == nil {
		return model.Starred{}, semanticErrorf("book already starred")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.Starred{}, err
	}

	return s.queries.CreateStarred(ctx, principal.ID, bookID)
}

// Unstar removes the principal's star on a book.
func (s *StarredService) Unstar(ctx context.Context, principal model.Principal, bookID int64) error {
	if principal.Anonymous() {
		return ErrInvalidCredentials
	}
	err := s.queries.DeleteStarred(ctx, principal.ID, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
