// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dummyops/bouquins/internal/model"
)

// userColumns selects a user row with its derived counters. The counters are
// computed live so they always equal the true row counts.
const userColumns = `
	u.id, u.username, u.email, u.hashed_password, u.role, u.disabled, u.created_at,
	(SELECT COUNT(*) FROM books b WHERE b.user_id = u.id) AS nb_publications,
	(SELECT COUNT(*) FROM comments c WHERE c.author_id = u.id) AS nb_comments`

func scanUser(row interface{ Scan(dest ...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Role,
		&u.Disabled, &u.CreatedAt, &u.NbPublications, &u.NbComments)
	return u, err
}

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT`+userColumns+` FROM users u WHERE u.id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername returns the user with the given lower-cased username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT`+userColumns+` FROM users u WHERE u.username = ?`, username)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given lower-cased email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT`+userColumns+` FROM users u WHERE u.email = ?`, email)
	return scanUser(row)
}

// ListUsers returns all users ordered by id.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT`+userColumns+` FROM users u ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListUsersPage returns one page of users ordered by id.
func (q *Queries) ListUsersPage(ctx context.Context, limit, offset int64) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT`+userColumns+` FROM users u ORDER BY u.id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// CountUsersByUsernameOrEmail counts users matching the lower-cased username
// or email, excluding the given id (0 matches nothing). Used for uniqueness
// checks on create and update.
func (q *Queries) CountUsersByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE (username = ? OR email = ?) AND id != ?`,
		username, email, excludeID).Scan(&count)
	return count, err
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
	Role           string
	Disabled       bool
	CreatedAt      time.Time
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, email, hashed_password, role, disabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Username, arg.Email, arg.HashedPassword, arg.Role, arg.Disabled, arg.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserParams holds the fields for UpdateUser.
type UpdateUserParams struct {
	ID       int64
	Username string
	Email    string
	Role     string
	Disabled bool
}

// UpdateUser updates a user's profile fields and returns the stored row.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, role = ?, disabled = ? WHERE id = ?`,
		arg.Username, arg.Email, arg.Role, arg.Disabled, arg.ID)
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, arg.ID)
}

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, hashedPassword string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = ? WHERE id = ?`, hashedPassword, id)
	return err
}

// DeleteUser removes a user. Owned books, comments and starred rows are
// removed by the cascading foreign keys.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
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
