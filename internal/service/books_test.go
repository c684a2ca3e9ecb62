// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func validBookInput() BookInput {
	return BookInput{
		Title:             "Voyage au bout de la nuit",
		Summary:           "Le périple de Bardamu à travers la guerre et la nuit.",
		Content:           "Un roman qui traverse la guerre, l'Afrique coloniale et la banlieue parisienne.",
		Author:            "Louis-Ferdinand Céline",
		Category:          "roman",
		YearOfPublication: 1932,
	}
}

func TestBookCreate(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()

	donald := principalFor(t, db, "donald")
	book, err := svc.Create(ctx, donald, validBookInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if book.UserID != donald.ID {
		t.Errorf("book owner = %d, want %d", book.UserID, donald.ID)
	}
	if book.CategoryName != "roman" {
		t.Errorf("category resolved to %q, want roman", book.CategoryName)
	}
	if book.NbComments != 0 || book.NbStarred != 0 {
		t.Errorf("fresh book counters = %d/%d, want 0/0", book.NbComments, book.NbStarred)
	}
}

func TestBookCreate_CategoryResolution(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()
	donald := principalFor(t, db, "donald")

	// Category names resolve case-insensitively.
	in := validBookInput()
	in.Category = "ROMAN"
	if _, err := svc.Create(ctx, donald, in); err != nil {
		t.Errorf("upper-cased category rejected: %v", err)
	}

	in.Category = "supplication"
	if _, err := svc.Create(ctx, donald, in); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category error = %v, want ErrNotFound", err)
	}
}

func TestBookCreate_Validation(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()
	donald := principalFor(t, db, "donald")

	mutate := []struct {
		name string
		fn   func(*BookInput)
	}{
		{"anonymous", nil},
		{"short title", func(in *BookInput) { in.Title = "ab" }},
		{"long title", func(in *BookInput) { in.Title = strings.Repeat("a", 81) }},
		{"placeholder title", func(in *BookInput) { in.Title = "String" }},
		{"long summary", func(in *BookInput) { in.Summary = strings.Repeat("a", 351) }},
		{"long content", func(in *BookInput) { in.Content = strings.Repeat("a", 2501) }},
		{"short author", func(in *BookInput) { in.Author = "ab" }},
		{"year zero", func(in *BookInput) { in.YearOfPublication = 0 }},
		{"future year", func(in *BookInput) { in.YearOfPublication = int64(time.Now().Year() + 1) }},
	}
	for _, tt := range mutate {
		t.Run(tt.name, func(t *testing.T) {
			in := validBookInput()
			principal := donald
			if tt.fn == nil {
				principal.ID = 0
				if _, err := svc.Create(ctx, principal, in); !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("anonymous Create error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			tt.fn(&in)
			if _, err := svc.Create(ctx, donald, in); !IsSemantic(err) {
				t.Errorf("Create error = %v, want semantic error", err)
			}
		})
	}
}

func TestBookUpdate_Ownership(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()

	donald := principalFor(t, db, "donald")
	daisy := principalFor(t, db, "daisy")
	admin := adminPrincipal(t, db)

	book, err := svc.Create(ctx, donald, validBookInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	in := validBookInput()
	in.Summary = "Résumé révisé pour la nouvelle édition."
	if _, err := svc.Update(ctx, daisy, book.ID, in); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer Update error = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Update(ctx, donald, book.ID, in); err != nil {
		t.Errorf("owner Update error: %v", err)
	}
	if _, err := svc.Update(ctx, admin, book.ID, in); err != nil {
		t.Errorf("admin Update error: %v", err)
	}
	if _, err := svc.Update(ctx, donald, 99999, in); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing book Update error = %v, want ErrNotFound", err)
	}
}

func TestBookUpdate_KeepsPicture(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()
	donald := principalFor(t, db, "donald")

	in := validBookInput()
	in.BookPictureName = "celine_voyage.jpg"
	book, err := svc.Create(ctx, donald, in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	in.BookPictureName = ""
	updated, err := svc.Update(ctx, donald, book.ID, in)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.BookPictureName != "celine_voyage.jpg" {
		t.Errorf("picture = %q, want the stored one kept", updated.BookPictureName)
	}
}

func TestBookPatch(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()
	donald := principalFor(t, db, "donald")

	book, err := svc.Create(ctx, donald, validBookInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	title := "Mort à crédit"
	category := "histoire"
	patched, err := svc.Patch(ctx, donald, book.ID, BookPatch{Title: &title, Category: &category})
	if err != nil {
		t.Fatalf("Patch error: %v", err)
	}
	if patched.Title != title {
		t.Errorf("title = %q, want %q", patched.Title, title)
	}
	if patched.CategoryName != "histoire" {
		t.Errorf("category = %q, want histoire", patched.CategoryName)
	}
	// Untouched fields keep their stored value.
	if patched.Author != book.Author || patched.YearOfPublication != book.YearOfPublication {
		t.Error("patch modified fields that were not in the request")
	}

	bad := "ab"
	if _, err := svc.Patch(ctx, donald, book.ID, BookPatch{Title: &bad}); !IsSemantic(err) {
		t.Errorf("short patched title error = %v, want semantic error", err)
	}
	unknown := "supplication"
	if _, err := svc.Patch(ctx, donald, book.ID, BookPatch{Category: &unknown}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown patched category error = %v, want ErrNotFound", err)
	}
}

func TestBookDelete(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()

	donald := principalFor(t, db, "donald")
	daisy := principalFor(t, db, "daisy")

	book, err := svc.Create(ctx, donald, validBookInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.Delete(ctx, daisy, book.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer Delete error = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(ctx, donald, book.ID); err != nil {
		t.Fatalf("owner Delete error: %v", err)
	}
	if _, err := svc.Get(ctx, book.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted book lookup error = %v, want ErrNotFound", err)
	}
}

func TestBookList_Seeded(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewBookService(db)
	ctx := context.Background()

	books, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(books) != 8 {
		t.Fatalf("seeded catalogue has %d books, want 8", len(books))
	}

	// Newest first on the paged listing.
	page, total, err := svc.ListPage(ctx, 6, 0)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if total != 8 {
		t.Errorf("total = %d, want 8", total)
	}
	if len(page) != 6 {
		t.Errorf("page size = %d, want 6", len(page))
	}
	for i := 1; i < len(page); i++ {
		if page[i].PublicationDate.After(page[i-1].PublicationDate) {
			t.Fatal("paged listing is not newest first")
		}
	}

	random, err := svc.ListRandom(ctx, 3)
	if err != nil {
		t.Fatalf("ListRandom error: %v", err)
	}
	if len(random) != 3 {
		t.Errorf("ListRandom returned %d books, want 3", len(random))
	}
}
