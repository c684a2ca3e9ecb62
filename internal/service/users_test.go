// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dummyops/bouquins/internal/model"
)

func TestRegister(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username:      "Tintin",
		Email:         "Tintin@localhost.fr",
		Password:      testPassword,
		PasswordCheck: testPassword,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Username != "tintin" {
		t.Errorf("username stored as %q, want lower-cased tintin", user.Username)
	}
	if user.Email != "tintin@localhost.fr" {
		t.Errorf("email stored as %q, want lower-cased", user.Email)
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, model.RoleUser)
	}
	if user.Disabled {
		t.Error("new account is disabled")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	in := RegisterInput{
		Username:      "tintin",
		Email:         "tintin@localhost.fr",
		Password:      testPassword,
		PasswordCheck: testPassword,
	}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	_, err := svc.Register(ctx, in)
	if !IsSemantic(err) {
		t.Fatalf("duplicate Register error = %v, want semantic error", err)
	}

	// Same email under another username is also a duplicate.
	in.Username = "milou"
	if _, err := svc.Register(ctx, in); !IsSemantic(err) {
		t.Fatalf("duplicate email error = %v, want semantic error", err)
	}
}

func TestRegister_Rejections(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"placeholder username", RegisterInput{Username: "String", Email: "a@b.fr", Password: testPassword, PasswordCheck: testPassword}},
		{"placeholder email", RegisterInput{Username: "tintin", Email: "string", Password: testPassword, PasswordCheck: testPassword}},
		{"invalid email", RegisterInput{Username: "tintin", Email: "not-an-email", Password: testPassword, PasswordCheck: testPassword}},
		{"password mismatch", RegisterInput{Username: "tintin", Email: "t@localhost.fr", Password: testPassword, PasswordCheck: "other94@aa"}},
		{"weak password", RegisterInput{Username: "tintin", Email: "t@localhost.fr", Password: "weak", PasswordCheck: "weak"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.in); !IsSemantic(err) {
				t.Errorf("Register error = %v, want semantic error", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "donald", testPassword)
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if user.Username != "donald" {
		t.Errorf("authenticated as %q, want donald", user.Username)
	}

	// Username lookup is case-insensitive through lower-casing.
	if _, err := svc.Authenticate(ctx, "DONALD", testPassword); err != nil {
		t.Errorf("upper-cased username rejected: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "donald", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", testPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
	// louloute is seeded disabled.
	if _, err := svc.Authenticate(ctx, "louloute", testPassword); !errors.Is(err, ErrInactiveUser) {
		t.Errorf("disabled user error = %v, want ErrInactiveUser", err)
	}
}

func TestAuthenticateBrowser(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	if _, err := svc.AuthenticateBrowser(ctx, "donald", "donald@localhost.fr", testPassword); err != nil {
		t.Fatalf("AuthenticateBrowser error: %v", err)
	}
	// The email must belong to the same account.
	if _, err := svc.AuthenticateBrowser(ctx, "donald", "daisy@localhost.fr", testPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("mismatched email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserUpdate_Authorization(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	donald := principalFor(t, db, "donald")
	daisy := principalFor(t, db, "daisy")
	admin := adminPrincipal(t, db)

	newEmail := "donald.duck@localhost.fr"
	if _, err := svc.Update(ctx, donald, donald.ID, UpdateInput{Email: &newEmail}); err != nil {
		t.Fatalf("self update error: %v", err)
	}

	if _, err := svc.Update(ctx, daisy, donald.ID, UpdateInput{Email: &newEmail}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer update error = %v, want ErrNotOwner", err)
	}

	role := model.RoleAdmin
	if _, err := svc.Update(ctx, donald, donald.ID, UpdateInput{Role: &role}); !errors.Is(err, ErrForbiddenRole) {
		t.Errorf("self promotion error = %v, want ErrForbiddenRole", err)
	}
	if _, err := svc.Update(ctx, admin, donald.ID, UpdateInput{Role: &role}); err != nil {
		t.Errorf("admin promotion error: %v", err)
	}

	badRole := "superuser"
	if _, err := svc.Update(ctx, admin, daisy.ID, UpdateInput{Role: &badRole}); !IsSemantic(err) {
		t.Errorf("unknown role error = %v, want semantic error", err)
	}
}

func TestSetPassword(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	donald := principalFor(t, db, "donald")
	daisy := principalFor(t, db, "daisy")

	next := "grapepie27?"
	if err := svc.SetPassword(ctx, donald, donald.ID, next, next); err != nil {
		t.Fatalf("SetPassword error: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "donald", next); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}

	if err := svc.SetPassword(ctx, daisy, donald.ID, next, next); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer SetPassword error = %v, want ErrNotOwner", err)
	}
	if err := svc.SetPassword(ctx, donald, donald.ID, next, "different27?"); !IsSemantic(err) {
		t.Errorf("mismatch error = %v, want semantic error", err)
	}
	if err := svc.SetPassword(ctx, donald, donald.ID, "weak", "weak"); !IsSemantic(err) {
		t.Errorf("weak password error = %v, want semantic error", err)
	}
}

func TestUserDelete(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	donald := principalFor(t, db, "donald")
	daisy := principalFor(t, db, "daisy")
	admin := adminPrincipal(t, db)

	// The bootstrap administrator can never be removed, not even by itself.
	if err := svc.Delete(ctx, admin, model.AdminUserID); !errors.Is(err, ErrForbiddenRole) {
		t.Errorf("admin delete error = %v, want ErrForbiddenRole", err)
	}

	if err := svc.Delete(ctx, daisy, donald.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer delete error = %v, want ErrNotOwner", err)
	}

	if err := svc.Delete(ctx, donald, donald.ID); err != nil {
		t.Fatalf("self delete error: %v", err)
	}
	if _, err := svc.Get(ctx, donald.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted account lookup error = %v, want ErrNotFound", err)
	}

	// Books owned by the account are gone with it.
	books, err := NewBookService(db).ListByUser(ctx, donald.ID)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("deleted account still owns %d books", len(books))
	}
}

func TestUserList_AdminOnly(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewUserService(db, testPolicy())
	ctx := context.Background()

	if _, err := svc.List(ctx, principalFor(t, db, "donald")); !errors.Is(err, ErrForbiddenRole) {
		t.Errorf("standard user List error = %v, want ErrForbiddenRole", err)
	}

	users, err := svc.List(ctx, adminPrincipal(t, db))
	if err != nil {
		t.Fatalf("admin List error: %v", err)
	}
	// admin + donald, daisy, loulou, louloute
	if len(users) != 5 {
		t.Errorf("List returned %d users, want 5", len(users))
	}
}
