// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/dummyops/bouquins/internal/model"
)

// GetQuoteByID returns the quote with the given id.
func (q *Queries) GetQuoteByID(ctx context.Context, id int64) (model.Quote, error) {
	var quote model.Quote
	err := q.db.QueryRowContext(ctx,
		`SELECT id, author, book_title, quote FROM quotes WHERE id = ?`, id).
		Scan(&quote.ID, &quote.Author, &quote.BookTitle, &quote.Quote)
	return quote, err
}

// ListQuotes returns all quotes ordered by id.
func (q *Queries) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, author, book_title, quote FROM quotes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var quotes []model.Quote
	for rows.Next() {
		var quote model.Quote
		if err := rows.Scan(&quote.ID, &quote.Author, &quote.BookTitle, &quote.Quote); err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

// CreateQuoteParams holds the fields for CreateQuote.
type CreateQuoteParams struct {
	Author    string
	BookTitle string
	Quote     string
}

// CreateQuote inserts a quote and returns the stored row.
func (q *Queries) CreateQuote(ctx context.Context, arg CreateQuoteParams) (model.Quote, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO quotes (author, book_title, quote) VALUES (?, ?, ?)`,
		arg.Author, arg.BookTitle, arg.Quote)
	if err != nil {
		return model.Quote{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Quote{}, err
	}
	return q.GetQuoteByID(ctx, id)
}

// DeleteQuote removes a quote.
func (q *Queries) DeleteQuote(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
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
