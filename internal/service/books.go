// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
)

// Book field bounds.
const (
	BookTitleMin   = 3
	BookTitleMax   = 80
	BookSummaryMin = 3
	BookSummaryMax = 350
	BookContentMin = 3
	BookContentMax = 2500
	BookAuthorMin  = 3
	BookAuthorMax  = 120
)

// BookService provides book CRUD with ownership checks and category
// resolution by name.
type BookService struct {
	queries *store.Queries
}

// NewBookService creates a new BookService.
func NewBookService(db *sql.DB) *BookService {
	return &BookService{queries: store.New(db)}
}

// BookInput holds the fields of a book create or full-update request.
// Category is a case-insensitive category name.
type BookInput struct {
	Title             string
	Summary           string
	Content           string
	Author            string
	Category          string
	YearOfPublication int64
	BookPictureName   string
}

func (s *BookService) validateBookInput(in BookInput) error {
	if err := checkText("title", in.Title, BookTitleMin, BookTitleMax); err != nil {
		return err
	}
	if err := checkText("summary", in.Summary, BookSummaryMin, BookSummaryMax); err != nil {
		return err
	}
	if err := checkText("content", in.Content, BookContentMin, BookContentMax); err != nil {
		return err
	}
	if err := checkText("author", in.Author, BookAuthorMin, BookAuthorMax); err != nil {
		return err
	}
	if in.YearOfPublication < 1 || in.YearOfPublication > int64(time.Now().Year()) {
		return semanticErrorf("year of publication must be between 1 and %d", time.Now().Year())
	}
	return nil
}

// resolveCategory maps a case-insensitive category name to its stored row.
func (s *BookService) resolveCategory(ctx context.Context, name string) (model.BookCategory, error) {
	category, err := s.queries.GetCategoryByTitle(ctx, strings.ToLower(strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BookCategory{}, ErrNotFound
	}
	return category, err
}

// Get returns one book.
func (s *BookService) Get(ctx context.Context, id int64) (model.Book, error) {
	book, err := s.queries.GetBookByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Book{}, ErrNotFound
	}
	return book, err
}

// List returns all books.
func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	return s.queries.ListBooks(ctx)
}

// ListPage returns one page of books, newest first, with the total count.
func (s *BookService) ListPage(ctx context.Context, limit, offset int64) ([]model.Book, int64, error) {
	books, err := s.queries.ListBooksPage(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountBooks(ctx)
	return books, total, err
}

// ListByUser returns all books owned by the given user.
func (s *BookService) ListByUser(ctx context.Context, userID int64) ([]model.Book, error) {
	return s.queries.ListBooksByUser(ctx, userID)
}

// ListByCategory returns all books in the given category.
func (s *BookService) ListByCategory(ctx context.Context, categoryID int64) ([]model.Book, error) {
	return s.queries.ListBooksByCategory(ctx, categoryID)
}

// ListRandom returns up to limit books sampled at random, for the home page.
func (s *BookService) ListRandom(ctx context.Context, limit int64) ([]model.Book, error) {
	return s.queries.ListRandomBooks(ctx, limit)
}

// Create validates the input, resolves the category name and inserts a book
// owned by the principal.
func (s *BookService) Create(ctx context.Context, principal model.Principal, in BookInput) (model.Book, error) {
	if principal.Anonymous() {
		return model.Book{}, ErrInvalidCredentials
	}
	if err := s.validateBookInput(in); err != nil {
		return model.Book{}, err
	}
	category, err := s.resolveCategory(ctx, in.Category)
	if err != nil {
		return model.Book{}, err
	}

	return s.queries.CreateBook(ctx, store.CreateBookParams{
		Title:             in.Title,
		Summary:           in.Summary,
		Content:           in.Content,
		Author:            in.Author,
		CategoryID:        category.ID,
		YearOfPublication: in.YearOfPublication,
		BookPictureName:   in.BookPictureName,
		PublicationDate:   time.Now(),
		UserID:            principal.ID,
	})
}

// Update replaces all mutable fields of a book. Owner or admin only.
func (s *BookService) Update(ctx context.Context, principal model.Principal, id int64, in BookInput) (model.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if !principal.Owns(book.UserID) && !principal.IsAdmin() {
		return model.Book{}, ErrNotOwner
	}
	if err := s.validateBookInput(in); err != nil {
		return model.Book{}, err
	}
	category, err := s.resolveCategory(ctx, in.Category)
	if err != nil {
		return model.Book{}, err
	}

	picture := book.BookPictureName
	if in.BookPictureName != "" {
		picture = in.BookPictureName
	}

	return s.queries.UpdateBook(ctx, store.UpdateBookParams{
		ID:                book.ID,
		Title:             in.Title,
		Summary:           in.Summary,
		Content:           in.Content,
		Author:            in.Author,
		CategoryID:        category.ID,
		YearOfPublication: in.YearOfPublication,
		BookPictureName:   picture,
	})
}

// BookPatch holds a partial update. Nil fields keep the stored value.
type BookPatch struct {
	Title             *string
	Summary           *string
	Content           *string
	Author            *string
	Category          *string
	YearOfPublication *int64
	BookPictureName   *string
}

// Patch applies a partial update to a book. Owner or admin only.
func (s *BookService) Patch(ctx context.Context, principal model.Principal, id int64, patch BookPatch) (model.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if !principal.Owns(book.UserID) && !principal.IsAdmin() {
		return model.Book{}, ErrNotOwner
	}

	in := BookInput{
		Title:             book.Title,
		Summary:           book.Summary,
		Content:           book.Content,
		Author:            book.Author,
		Category:          book.CategoryName,
		YearOfPublication: book.YearOfPublication,
		BookPictureName:   book.BookPictureName,
	}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.Summary != nil {
		in.Summary = *patch.Summary
	}
	if patch.Content != nil {
		in.Content = *patch.Content
	}
	if patch.Author != nil {
		in.Author = *patch.Author
	}
	if patch.Category != nil {
		in.Category = *patch.Category
	}
	if patch.YearOfPublication != nil {
		in.YearOfPublication = *patch.YearOfPublication
	}
	if patch.BookPictureName != nil {
		in.BookPictureName = *patch.BookPictureName
	}

	if err := s.validateBookInput(in); err != nil {
		return model.Book{}, err
	}
	category, err := s.resolveCategory(ctx, in.Category)
	if err != nil {
		return model.Book{}, err
	}

	return s.queries.UpdateBook(ctx, store.UpdateBookParams{
		ID:                book.ID,
		Title:             in.Title,
		Summary:           in.Summary,
		Content:           in.Content,
		Author:            in.Author,
		CategoryID:        category.ID,
		YearOfPublication: in.YearOfPublication,
		BookPictureName:   in.BookPictureName,
	})
}

// Delete removes a book with its comments and stars. Owner or admin only.
func (s *BookService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	book, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !principal.Owns(book.UserID) && !principal.IsAdmin() {
		return ErrNotOwner
	}
	return s.queries.DeleteBook(ctx, book.ID)
}
