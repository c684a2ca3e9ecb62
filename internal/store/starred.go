// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/dummyops/bouquins/internal/model"
)

// GetStarred returns the starred row for the given (user, book) pair.
func (q *Queries) GetStarred(ctx context.Context, userID, bookID int64) (model.Starred, error) {
	var s model.Starred
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, book_id FROM starred WHERE user_id = ? AND book_id = ?`,
		userID, bookID).Scan(&s.ID, &s.UserID, &s.BookID)
	return s, err
}

// ListStarredByUser returns all books starred by the given user.
func (q *Queries) ListStarredByUser(ctx context.Context, userID int64) ([]model.Starred, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, book_id FROM starred WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var starred []model.Starred
	for rows.Next() {
		var s model.Starred
		if err := rows.Scan(&s.ID, &s.UserID, &s.BookID); err != nil {
			return nil, err
		}
		starred = append(starred, s)
	}
	return starred, rows.Err()
}

// CreateStarred inserts a starred row for the given (user, book) pair.
// The unique constraint rejects a second star on the same pair.
func (q *Queries) CreateStarred(ctx context.Context, userID, bookID int64) (model.Starred, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO starred (user_id, book_id) VALUES (?, ?)`, userID, bookID)
	if err != nil {
		return model.Starred{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Starred{}, err
	}
	return model.Starred{ID: id, UserID: userID, BookID: bookID}, nil
}

// DeleteStarred removes the starred row for the given (user, book) pair.
func (q *Queries) DeleteStarred(ctx context.Context, userID, bookID int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM starred WHERE user_id = ? AND book_id = ?`, userID, bookID)
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
