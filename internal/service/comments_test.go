// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
)

func TestCommentCreate(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewCommentService(db)
	books := NewBookService(db)
	ctx := context.Background()
	donald := principalFor(t, db, "donald")

	all, err := books.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	book := all[0]

	comment, err := svc.Create(ctx, donald, book.ID, "Une lecture marquante.")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if comment.AuthorID != donald.ID || comment.BookID != book.ID {
		t.Errorf("comment attribution = author %d book %d", comment.AuthorID, comment.BookID)
	}

	// The book's derived counter follows.
	after, err := books.Get(ctx, book.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if after.NbComments != book.NbComments+1 {
		t.Errorf("NbComments = %d, want %d", after.NbComments, book.NbComments+1)
	}

	if _, err := svc.Create(ctx, donald, 99999, "Sur un livre fantôme."); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing book error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Create(ctx, donald, book.ID, "ab"); !IsSemantic(err) {
		t.Errorf("short text error = %v, want semantic error", err)
	}
	anonymous := donald
	anonymous.ID = 0
	if _, err := svc.Create(ctx, anonymous, book.ID, "Commentaire anonyme."); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("anonymous error = %v, want ErrInvalidCredentials", err)
	}
}

func TestCommentUpdateDelete_Authorization(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewCommentService(db)
	ctx := context.Background()

	donald := principalFor(t, db, "donald")
	daisy := principalFor(t, db, "daisy")
	admin := adminPrincipal(t, db)

	books, err := NewBookService(db).List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	comment, err := svc.Create(ctx, donald, books[0].ID, "Premier jet de commentaire.")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Update(ctx, daisy, comment.ID, "Réécrit par une autre."); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer Update error = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Update(ctx, donald, comment.ID, "Version corrigée."); err != nil {
		t.Errorf("author Update error: %v", err)
	}
	if _, err := svc.Update(ctx, admin, comment.ID, "Version modérée."); err != nil {
		t.Errorf("admin Update error: %v", err)
	}

	if err := svc.Delete(ctx, daisy, comment.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer Delete error = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(ctx, admin, comment.ID); err != nil {
		t.Fatalf("admin Delete error: %v", err)
	}
	if _, err := svc.Get(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted comment lookup error = %v, want ErrNotFound", err)
	}
}

func TestCommentListByBook(t *testing.T) {
	db, cleanup := seededServices(t)
	defer cleanup()
	svc := NewCommentService(db)
	ctx := context.Background()

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 7 {
		t.Fatalf("seeded comments = %d, want 7", len(all))
	}

	if _, err := svc.ListByBook(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing book error = %v, want ErrNotFound", err)
	}

	comments, err := svc.ListByBook(ctx, all[0].BookID)
	if err != nil {
		t.Fatalf("ListByBook error: %v", err)
	}
	for i := 1; i < len(comments); i++ {
		if comments[i].PublicationDate.Before(comments[i-1].PublicationDate) {
			t.Fatal("comments are not oldest first")
		}
	}
}
