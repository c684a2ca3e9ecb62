// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"

	"github.com/dummyops/bouquins/internal/store"
)

// StatsService computes the aggregate tables shown on the stats pages.
type StatsService struct {
	queries *store.Queries
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{queries: store.New(db)}
}

// BooksPerCategory returns the book count per category, empty ones included.
func (s *StatsService) BooksPerCategory(ctx context.Context) ([]store.LabelCount, error) {
	return s.queries.CountBooksPerCategory(ctx)
}

// BooksPerUser returns the publication count per user.
func (s *StatsService) BooksPerUser(ctx context.Context) ([]store.LabelCount, error) {
	return s.queries.CountBooksPerUser(ctx)
}
