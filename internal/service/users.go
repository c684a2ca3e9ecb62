// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
)

// UserService provides account management and credential checks.
type UserService struct {
	queries *store.Queries
	policy  auth.Policy
}

// NewUserService creates a new UserService with the given password policy.
func NewUserService(db *sql.DB, policy auth.Policy) *UserService {
	return &UserService{
		queries: store.New(db),
		policy:  policy,
	}
}

// RegisterInput holds the fields of a registration request.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	PasswordCheck string
}

// Register creates a standard user account. Username and email are stored
// lower-cased; duplicates and weak passwords are rejected with a
// SemanticError.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := checkText("username", username, 1, 125); err != nil {
		return model.User{}, err
	}
	if strings.EqualFold(email, placeholderText) {
		return model.User{}, semanticErrorf("email cannot be the placeholder value")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, semanticErrorf("email %q is not a valid address", email)
	}
	if in.Password != in.PasswordCheck {
		return model.User{}, semanticErrorf("passwords do not match")
	}
	if !s.policy.Check(in.Password) {
		return model.User{}, semanticErrorf("password does not respect the security policy")
	}

	count, err := s.queries.CountUsersByUsernameOrEmail(ctx, username, email, 0)
	if err != nil {
		return model.User{}, fmt.Errorf("checking uniqueness: %w", err)
	}
	if count > 0 {
		return model.User{}, semanticErrorf("user %s or email %s already exists", username, email)
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	return s.queries.CreateUser(ctx, store.CreateUserParams{
		Username:       username,
		Email:          email,
		HashedPassword: passwordHash,
		Role:           model.RoleUser,
		Disabled:       false,
		CreatedAt:      time.Now(),
	})
}

// Authenticate checks a username/password pair and returns the matching
// account. A disabled account yields ErrInactiveUser, anything else that
// fails yields ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.queries.GetUserByUsername(ctx, strings.ToLower(username))
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a hash check so a missing user costs the same as a wrong password.
		_, _ = auth.CheckPassword(password, fakeHash)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.HashedPassword)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}
	if user.Disabled {
		return model.User{}, ErrInactiveUser
	}
	return user, nil
}

// AuthenticateBrowser checks the browser login triple. The email must belong
// to the same account as the username.
func (s *UserService) AuthenticateBrowser(ctx context.Context, username, email, password string) (model.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return model.User{}, err
	}
	if !strings.EqualFold(user.Email, email) {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// fakeHash is a throwaway argon2id digest used to equalize timing when the
// username does not exist.
var fakeHash = func() string {
	h, _ := auth.HashPassword("timing-equalizer-0!")
	return h
}()

// Get returns one user. Any authenticated principal may read accounts.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

// GetByUsername returns the account with the given username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (model.User, error) {
	user, err := s.queries.GetUserByUsername(ctx, strings.ToLower(username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

// List returns all accounts. Reserved to administrators.
func (s *UserService) List(ctx context.Context, principal model.Principal) ([]model.User, error) {
	if !principal.IsAdmin() {
		return nil, ErrForbiddenRole
	}
	return s.queries.ListUsers(ctx)
}

// ListPage returns one page of accounts. Reserved to administrators.
func (s *UserService) ListPage(ctx context.Context, principal model.Principal, limit, offset int64) ([]model.User, int64, error) {
	if !principal.IsAdmin() {
		return nil, 0, ErrForbiddenRole
	}
	users, err := s.queries.ListUsersPage(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountUsers(ctx)
	return users, total, err
}

// UpdateInput holds the mutable profile fields. Nil means keep the stored
// value.
type UpdateInput struct {
	Username *string
	Email    *string
	Role     *string
	Disabled *bool
}

// Update mutates an account. A user may edit their own profile fields; role
// and disabled changes, and edits to other accounts, are admin-only.
func (s *UserService) Update(ctx context.Context, principal model.Principal, id int64, in UpdateInput) (model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if !principal.Owns(user.ID) && !principal.IsAdmin() {
		return model.User{}, ErrNotOwner
	}
	if (in.Role != nil || in.Disabled != nil) && !principal.IsAdmin() {
		return model.User{}, ErrForbiddenRole
	}

	username, email := user.Username, user.Email
	if in.Username != nil {
		username = strings.ToLower(strings.TrimSpace(*in.Username))
		if err := checkText("username", username, 1, 125); err != nil {
			return model.User{}, err
		}
	}
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return model.User{}, semanticErrorf("email %q is not a valid address", email)
		}
	}
	role := user.Role
	if in.Role != nil {
		if *in.Role != model.RoleAdmin && *in.Role != model.RoleUser {
			return model.User{}, semanticErrorf("unknown role %q", *in.Role)
		}
		role = *in.Role
	}
	disabled := user.Disabled
	if in.Disabled != nil {
		disabled = *in.Disabled
	}

	count, err := s.queries.CountUsersByUsernameOrEmail(ctx, username, email, user.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("checking uniqueness: %w", err)
	}
	if count > 0 {
		return model.User{}, semanticErrorf("user %s or email %s already exists", username, email)
	}

	return s.queries.UpdateUser(ctx, store.UpdateUserParams{
		ID:       user.ID,
		Username: username,
		Email:    email,
		Role:     role,
		Disabled: disabled,
	})
}

// SetPassword replaces an account's password. Owner or admin only; the new
// password must satisfy the policy.
func (s *UserService) SetPassword(ctx context.Context, principal model.Principal, id int64, password, passwordCheck string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !principal.Owns(user.ID) && !principal.IsAdmin() {
		return ErrNotOwner
	}
	if password != passwordCheck {
		return semanticErrorf("passwords do not match")
	}
	if !s.policy.Check(password) {
		return semanticErrorf("password does not respect the security policy")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.queries.UpdateUserPassword(ctx, user.ID, passwordHash)
}

// Delete removes an account and everything it owns. Owner or admin only; the
// bootstrap administrator can never be removed.
func (s *UserService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if id == model.AdminUserID {
		return ErrForbiddenRole
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !principal.Owns(user.ID) && !principal.IsAdmin() {
		return ErrNotOwner
	}
	return s.queries.DeleteUser(ctx, user.ID)
}
