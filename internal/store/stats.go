// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

// LabelCount is one slice of a stats breakdown: a label and its book count.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CountBooksPerCategory returns the number of books in each category,
// including empty categories.
func (q *Queries) CountBooksPerCategory(ctx context.Context) ([]LabelCount, error) {
	return q.queryLabelCounts(ctx,
		`SELECT bc.title, COUNT(b.id) FROM book_categories bc
		 LEFT JOIN books b ON b.category_id = bc.id
		 GROUP BY bc.id ORDER BY bc.id`)
}

// CountBooksPerUser returns the number of books published by each user,
// including users without publications.
func (q *Queries) CountBooksPerUser(ctx context.Context) ([]LabelCount, error) {
	return q.queryLabelCounts(ctx,
		`SELECT u.username, COUNT(b.id) FROM users u
		 LEFT JOIN books b ON b.user_id = u.id
		 GROUP BY u.id ORDER BY u.id`)
}

func (q *Queries) queryLabelCounts(ctx context.Context, query string) ([]LabelCount, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, lc)
	}
	return counts, rows.Err()
}
