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

// QuoteService provides quote management. Every operation is admin-only.
type QuoteService struct {
	queries *store.Queries
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(db *sql.DB) *QuoteService {
	return &QuoteService{queries: store.New(db)}
}

// Get returns one quote. Admin only.
func (s *QuoteService) Get(ctx context.Context, principal model.Principal, id int64) (model.Quote, error) {
	if !principal.IsAdmin() {
		return model.Quote{}, ErrForbiddenRole
	}
	quote, err := s.queries.GetQuoteByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quote{}, ErrNotFound
	}
	return quote, err
}

// List returns all quotes. Admin only.
func (s *QuoteService) List(ctx context.Context, principal model.Principal) ([]model.Quote, error) {
	if !principal.IsAdmin() {
		return nil, ErrForbiddenRole
	}
	return s.queries.ListQuotes(ctx)
}

// QuoteInput holds the fields of a quote create request.
type QuoteInput struct {
	Author    string
	BookTitle string
	Quote     string
}

// Create adds a quote. Admin only.
func (s *QuoteService) Create(ctx context.Context, principal model.Principal, in QuoteInput) (model.Quote, error) {
	if !principal.IsAdmin() {
		return model.Quote{}, ErrForbiddenRole
	}
	if err := checkText("author", in.Author, 3, 0); err != nil {
		return model.Quote{}, err
	}
	if err := checkText("book title", in.BookTitle, 3, 0); err != nil {
		return model.Quote{}, err
	}
	if err := checkText("quote", in.Quote, 3, 0); err != nil {
		return model.Quote{}, err
	}

	return s.queries.CreateQuote(ctx, store.CreateQuoteParams{
		Author:    in.Author,
		BookTitle: in.BookTitle,
		Quote:     in.Quote,
	})
}

// Delete removes a quote. Admin only.
func (s *QuoteService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if !principal.IsAdmin() {
		return ErrForbiddenRole
	}
	err := s.queries.DeleteQuote(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
