// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dummyops/bouquins/internal/model"
)

// bookColumns selects a book row with its resolved category title and
// derived counters.
const bookColumns = `
	b.id, b.title, b.summary, b.content, b.author, b.category_id, bc.title,
	b.year_of_publication, b.book_picture_name, b.publication_date, b.user_id,
	(SELECT COUNT(*) FROM comments c WHERE c.book_id = b.id) AS nb_comments,
	(SELECT COUNT(*) FROM starred s WHERE s.book_id = b.id) AS nb_starred`

const bookFrom = ` FROM books b JOIN book_categories bc ON bc.id = b.category_id`

func scanBook(row interface{ Scan(dest ...any) error }) (model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Summary, &b.Content, &b.Author,
		&b.CategoryID, &b.CategoryName, &b.YearOfPublication, &b.BookPictureName,
		&b.PublicationDate, &b.UserID, &b.NbComments, &b.NbStarred)
	return b, err
}

func (q *Queries) queryBooks(ctx context.Context, query string, args ...any) ([]model.Book, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// GetBookByID returns the book with the given id.
func (q *Queries) GetBookByID(ctx context.Context, id int64) (model.Book, error) {
	row := q.db.QueryRowContext(ctx, `SELECT`+bookColumns+bookFrom+` WHERE b.id = ?`, id)
	return scanBook(row)
}

// GetBookByTitle returns the book with the given title.
func (q *Queries) GetBookByTitle(ctx context.Context, title string) (model.Book, error) {
	row := q.db.QueryRowContext(ctx, `SELECT`+bookColumns+bookFrom+` WHERE b.title = ?`, title)
	return scanBook(row)
}

// ListBooks returns all books ordered by id.
func (q *Queries) ListBooks(ctx context.Context) ([]model.Book, error) {
	return q.queryBooks(ctx, `SELECT`+bookColumns+bookFrom+` ORDER BY b.id`)
}

// ListBooksPage returns one page of books, newest first.
func (q *Queries) ListBooksPage(ctx context.Context, limit, offset int64) ([]model.Book, error) {
	return q.queryBooks(ctx,
		`SELECT`+bookColumns+bookFrom+` ORDER BY b.publication_date DESC, b.id DESC LIMIT ? OFFSET ?`,
		limit, offset)
}

// ListBooksByUser returns all books owned by the given user, ordered by id.
func (q *Queries) ListBooksByUser(ctx context.Context, userID int64) ([]model.Book, error) {
	return q.queryBooks(ctx, `SELECT`+bookColumns+bookFrom+` WHERE b.user_id = ? ORDER BY b.id`, userID)
}

// ListBooksByCategory returns all books in the given category, ordered by id.
func (q *Queries) ListBooksByCategory(ctx context.Context, categoryID int64) ([]model.Book, error) {
	return q.queryBooks(ctx, `SELECT`+bookColumns+bookFrom+` WHERE b.category_id = ? ORDER BY b.id`, categoryID)
}

// ListRandomBooks returns up to limit books sampled uniformly at random.
func (q *Queries) ListRandomBooks(ctx context.Context, limit int64) ([]model.Book, error) {
	return q.queryBooks(ctx, `SELECT`+bookColumns+bookFrom+` ORDER BY RANDOM() LIMIT ?`, limit)
}

// CountBooks returns the total number of books.
func (q *Queries) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	return count, err
}

// CountBooksByCategory returns the number of books referencing the category.
func (q *Queries) CountBooksByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE category_id = ?`, categoryID).Scan(&count)
	return count, err
}

// CreateBookParams holds the fields for CreateBook.
type CreateBookParams struct {
	Title             string
	Summary           string
	Content           string
	Author            string
	CategoryID        int64
	YearOfPublication int64
	BookPictureName   string
	PublicationDate   time.Time
	UserID            int64
}

// CreateBook inserts a book and returns the stored row.
func (q *Queries) CreateBook(ctx context.Context, arg CreateBookParams) (model.Book, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO books (title, summary, content, author, category_id,
		 year_of_publication, book_picture_name, publication_date, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Summary, arg.Content, arg.Author, arg.CategoryID,
		arg.YearOfPublication, arg.BookPictureName, arg.PublicationDate, arg.UserID)
	if err != nil {
		return model.Book{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Book{}, err
	}
	return q.GetBookByID(ctx, id)
}

// UpdateBookParams holds the fields for UpdateBook.
type UpdateBookParams struct {
	ID                int64
	Title             string
	Summary           string
	Content           string
	Author            string
	CategoryID        int64
	YearOfPublication int64
	BookPictureName   string
}

// UpdateBook updates a book's mutable fields and returns the stored row.
func (q *Queries) UpdateBook(ctx context.Context, arg UpdateBookParams) (model.Book, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE books SET title = ?, summary = ?, content = ?, author = ?,
		 category_id = ?, year_of_publication = ?, book_picture_name = ?
		 WHERE id = ?`,
		arg.Title, arg.Summary, arg.Content, arg.Author, arg.CategoryID,
		arg.YearOfPublication, arg.BookPictureName, arg.ID)
	if err != nil {
		return model.Book{}, err
	}
	return q.GetBookByID(ctx, arg.ID)
}

// DeleteBook removes a book. Its comments and starred rows are removed by
// the cascading foreign keys.
func (q *Queries) DeleteBook(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
