// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dummyops/bouquins/internal/model"
)

func scanComment(row interface{ Scan(dest ...any) error }) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.Text, &c.PublicationDate, &c.AuthorID, &c.BookID)
	return c, err
}

func (q *Queries) queryComments(ctx context.Context, query string, args ...any) ([]model.Comment, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetCommentByID returns the comment with the given id.
func (q *Queries) GetCommentByID(ctx context.Context, id int64) (model.Comment, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, text, publication_date, author_id, book_id FROM comments WHERE id = ?`, id)
	return scanComment(row)
}

// ListComments returns all comments ordered by id.
func (q *Queries) ListComments(ctx context.Context) ([]model.Comment, error) {
	return q.queryComments(ctx,
		`SELECT id, text, publication_date, author_id, book_id FROM comments ORDER BY id`)
}

// ListCommentsByBook returns all comments on the given book, oldest first.
func (q *Queries) ListCommentsByBook(ctx context.Context, bookID int64) ([]model.Comment, error) {
	return q.queryComments(ctx,
		`SELECT id, text, publication_date, author_id, book_id FROM comments
		 WHERE book_id = ? ORDER BY publication_date, id`, bookID)
}

func (q *Queries) countComments(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count)
	return count, err
}

// CreateCommentParams holds the fields for CreateComment.
type CreateCommentParams struct {
	Text            string
	PublicationDate time.Time
	AuthorID        int64
	BookID          int64
}

// CreateComment inserts a comment and returns the stored row.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (model.Comment, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO comments (text, publication_date, author_id, book_id) VALUES (?, ?, ?, ?)`,
		arg.Text, arg.PublicationDate, arg.AuthorID, arg.BookID)
	if err != nil {
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	return q.GetCommentByID(ctx, id)
}

// UpdateComment replaces a comment's text and returns the stored row.
func (q *Queries) UpdateComment(ctx context.Context, id int64, text string) (model.Comment, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE comments SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return model.Comment{}, err
	}
	return q.GetCommentByID(ctx, id)
}

// DeleteComment removes a comment.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
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
