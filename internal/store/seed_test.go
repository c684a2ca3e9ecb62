// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
	"github.com/dummyops/bouquins/internal/testutil"
)

const testPassword = "applepie94@"

func seedAll(t *testing.T) *store.Queries {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, db, store.AdminBootstrap{
		Login:    "Admin",
		Email:    "Admin@localhost.fr",
		Password: testPassword,
	}))
	require.NoError(t, store.SeedDemo(ctx, db, testPassword))
	return store.New(db)
}

func TestSeed_AdminBootstrap(t *testing.T) {
	queries := seedAll(t)
	ctx := context.Background()

	admin, err := queries.GetUserByID(ctx, model.AdminUserID)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username, "bootstrap login is stored lower-cased")
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.False(t, admin.Disabled)
}

func TestSeed_DemoContent(t *testing.T) {
	queries := seedAll(t)
	ctx := context.Background()

	users, err := queries.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, users, "admin plus four demo accounts")

	books, err := queries.CountBooks(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, books)

	categories, err := queries.CountCategories(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, categories)

	louloute, err := queries.GetUserByUsername(ctx, "louloute")
	require.NoError(t, err)
	assert.True(t, louloute.Disabled, "louloute is seeded disabled")
}

func TestSeed_Idempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	bootstrap := store.AdminBootstrap{Login: "admin", Email: "admin@localhost.fr", Password: testPassword}
	for i := 0; i < 2; i++ {
		require.NoError(t, store.Seed(ctx, db, bootstrap))
		require.NoError(t, store.SeedDemo(ctx, db, testPassword))
	}

	queries := store.New(db)
	users, err := queries.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, users)

	books, err := queries.CountBooks(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, books)
}

func TestBookCounters(t *testing.T) {
	queries := seedAll(t)
	ctx := context.Background()

	book, err := queries.GetBookByTitle(ctx, "Les gratitudes")
	require.NoError(t, err)

	comments, err := queries.ListCommentsByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, len(comments), book.NbComments)

	user, err := queries.GetUserByUsername(ctx, "daisy")
	require.NoError(t, err)
	_, err = queries.CreateStarred(ctx, user.ID, book.ID)
	require.NoError(t, err)

	after, err := queries.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.NbStarred+1, after.NbStarred)
}

func TestDeleteBook_Cascades(t *testing.T) {
	queries := seedAll(t)
	ctx := context.Background()

	book, err := queries.GetBookByTitle(ctx, "Noa")
	require.NoError(t, err)
	user, err := queries.GetUserByUsername(ctx, "donald")
	require.NoError(t, err)
	_, err = queries.CreateStarred(ctx, user.ID, book.ID)
	require.NoError(t, err)

	require.NoError(t, queries.DeleteBook(ctx, book.ID))

	comments, err := queries.ListCommentsByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, comments, "comments are removed with the book")

	stars, err := queries.ListStarredByUser(ctx, user.ID)
	require.NoError(t, err)
	for _, s := range stars {
		assert.NotEqual(t, book.ID, s.BookID, "stars are removed with the book")
	}
}
