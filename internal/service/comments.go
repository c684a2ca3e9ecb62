// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
)

// Comment field bounds.
const (
	CommentTextMin = 3
	CommentTextMax = 500
)

// CommentService provides comment CRUD with author/admin checks.
type CommentService struct {
	queries *store.Queries
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{queries: store.New(db)}
}

// Get returns one comment.
func (s *CommentService) Get(ctx context.Context, id int64) (model.Comment, error) {
	comment, err := s.queries.GetCommentByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, ErrNotFound
	}
	return comment, err
}

// List returns all comments on the blog.
func (s *CommentService) List(ctx context.Context) ([]model.Comment, error) {
	return s.queries.ListComments(ctx)
}

// ListByBook returns the comments on a book, oldest first. The book must
// exist.
func (s *CommentService) ListByBook(ctx context.Context, bookID int64) ([]model.Comment, error) {
	if _, err := s.queries.GetBookByID(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.queries.ListCommentsByBook(ctx, bookID)
}

// Create adds a comment by the principal on an existing book.
func (s *CommentService) Create(ctx context.Context, principal model.Principal, bookID int64, text string) (model.Comment, error) {
	if principal.Anonymous() {
		return model.Comment{}, ErrInvalidCredentials
	}
	if err := checkText("text", text, CommentTextMin, CommentTextMax); err != nil {
		return model.Comment{}, err
	}
	if _, err := s.queries.GetBookByID(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, ErrNotFound
		}
		return model.Comment{}, err
	}

	return s.queries.CreateComment(ctx, store.CreateCommentParams{
		Text:            text,
		PublicationDate: time.Now(),
		AuthorID:        principal.ID,
		BookID:          bookID,
	})
}

// Update replaces a comment's text. Author or admin only.
func (s *CommentService) Update(ctx context.Context, principal model.Principal, id int64, text string) (model.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	if !principal.Owns(comment.AuthorID) && !principal.IsAdmin() {
		return model.Comment{}, ErrNotOwner
	}
	if err := checkText("text", text, CommentTextMin, CommentTextMax); err != nil {
		return model.Comment{}, err
	}
	return s.queries.UpdateComment(ctx, comment.ID, text)
}

// Delete removes a comment. Author or admin only.
func (s *CommentService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !principal.Owns(comment.AuthorID) && !principal.IsAdmin() {
		return ErrNotOwner
	}
	return s.queries.DeleteComment(ctx, comment.ID)
}
