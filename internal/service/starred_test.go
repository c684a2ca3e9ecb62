// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
)

func TestStarred(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewStarredService(db)
	books := NewBookService(db)
	ctx := context.Background()
	donald := principalFor(t, db, "donald")

	all, err := books.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	book := all[0]

	starred, err := svc.Star(ctx, donald, book.ID)
	if err != nil {
		t.Fatalf("Star error: %v", err)
	}
	if starred.UserID != donald.ID || starred.BookID != book.ID {
		t.Errorf("star attribution = user %d book %d", starred.UserID, starred.BookID)
	}

	if _, err := svc.Star(ctx, donald, book.ID); !IsSemantic(err) {
		t.Errorf("duplicate Star error = %v, want semantic error", err)
	}
	if _, err := svc.Star(ctx, donald, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing book Star error = %v, want ErrNotFound", err)
	}

	ok, err := svc.IsStarred(ctx, donald, book.ID)
	if err != nil {
		t.Fatalf("IsStarred error: %v", err)
	}
	if !ok {
		t.Error("IsStarred = false after Star")
	}

	mine, err := svc.ListBooks(ctx, donald)
	if err != nil {
		t.Fatalf("ListBooks error: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != book.ID {
		t.Errorf("ListBooks = %d entries, want the single starred book", len(mine))
	}

	// Stars are personal: another account sees none.
	daisy := principalFor(t, db, "daisy")
	hers, err := svc.ListBooks(ctx, daisy)
	if err != nil {
		t.Fatalf("ListBooks error: %v", err)
	}
	if len(hers) != 0 {
		t.Errorf("another account sees %d starred books, want 0", len(hers))
	}

	if err := svc.Unstar(ctx, daisy, book.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unstar of a star not owned error = %v, want ErrNotFound", err)
	}
	if err := svc.Unstar(ctx, donald, book.ID); err != nil {
		t.Fatalf("Unstar error: %v", err)
	}
	if err := svc.Unstar(ctx, donald, book.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Unstar error = %v, want ErrNotFound", err)
	}
}

func TestStarred_Anonymous(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewStarredService(db)
	ctx := context.Background()

	var anonymous = principalFor(t, db, "donald")
	anonymous.ID = 0

	if _, err := svc.Star(ctx, anonymous, 1); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("anonymous Star error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.List(ctx, anonymous); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("anonymous List error = %v, want ErrInvalidCredentials", err)
	}
}
