// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
)

// CategoryService provides book category management. Reads are open to any
// authenticated principal; every mutation is admin-only.
type CategoryService struct {
	queries *store.Queries
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{queries: store.New(db)}
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, id int64) (model.BookCategory, error) {
	category, err := s.queries.GetCategoryByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BookCategory{}, ErrNotFound
	}
	return category, err
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]model.BookCategory, error) {
	return s.queries.ListCategories(ctx)
}

// Create adds a category. Admin only; the title is stored lower-cased.
func (s *CategoryService) Create(ctx context.Context, principal model.Principal, title string) (model.BookCategory, error) {
	if !principal.IsAdmin() {
		return model.BookCategory{}, ErrForbiddenRole
	}
	title = strings.ToLower(strings.TrimSpace(title))
	if err := checkText("title", title, 1, 125); err != nil {
		return model.BookCategory{}, err
	}

	if _, err := s.queries.GetCategoryByTitle(ctx, title); err == nil {
		return model.BookCategory{}, semanticErrorf("category %s already exists", title)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.BookCategory{}, fmt.Errorf("checking category uniqueness: %w", err)
	}

	return s.queries.CreateCategory(ctx, title)
}

// Update renames a category. Admin only.
func (s *CategoryService) Update(ctx context.Context, principal model.Principal, id int64, title string) (model.BookCategory, error) {
	if !principal.IsAdmin() {
		return model.BookCategory{}, ErrForbiddenRole
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return model.BookCategory{}, err
	}

	title = strings.ToLower(strings.TrimSpace(title))
	if err := checkText("title", title, 1, 125); err != nil {
		return model.BookCategory{}, err
	}
	if other, err := s.queries.GetCategoryByTitle(ctx, title); err == nil && other.ID != category.ID {
		return model.BookCategory{}, semanticErrorf("category %s already exists", title)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.BookCategory{}, fmt.Errorf("checking category uniqueness: %w", err)
	}

	return s.queries.UpdateCategory(ctx, category.ID, title)
}

// Delete removes a category. Admin only; a category still referenced by
// books cannot be removed.
func (s *CategoryService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if !principal.IsAdmin() {
		return ErrForbiddenRole
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.queries.CountBooksByCategory(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("counting category books: %w", err)
	}
	if count > 0 {
		return semanticErrorf("category %s still has %d books", category.Title, count)
	}

	return s.queries.DeleteCategory(ctx, category.ID)
}
