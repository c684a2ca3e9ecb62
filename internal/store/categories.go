// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/dummyops/bouquins/internal/model"
)

// GetCategoryByID returns the category with the given id.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.BookCategory, error) {
	var c model.BookCategory
	err := q.db.QueryRowContext(ctx,
		`SELECT id, title FROM book_categories WHERE id = ?`, id).Scan(&c.ID, &c.Title)
	return c, err
}

// GetCategoryByTitle returns the category with the given lower-cased title.
func (q *Queries) GetCategoryByTitle(ctx context.Context, title string) (model.BookCategory, error) {
	var c model.BookCategory
	err := q.db.QueryRowContext(ctx,
		`SELECT id, title FROM book_categories WHERE title = ?`, title).Scan(&c.ID, &c.Title)
	return c, err
}

// ListCategories returns all categories ordered by id.
func (q *Queries) ListCategories(ctx context.Context) ([]model.BookCategory, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, title FROM book_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []model.BookCategory
	for rows.Next() {
		var c model.BookCategory
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountCategories returns the total number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM book_categories`).Scan(&count)
	return count, err
}

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, title string) (model.BookCategory, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO book_categories (title) VALUES (?)`, title)
	if err != nil {
		return model.BookCategory{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.BookCategory{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// UpdateCategory renames a category and returns the stored row.
func (q *Queries) UpdateCategory(ctx context.Context, id int64, title string) (model.BookCategory, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE book_categories SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return model.BookCategory{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// DeleteCategory removes a category. The RESTRICT foreign key makes the
// delete fail while books still reference it.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM book_categories WHERE id = ?`, id)
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
