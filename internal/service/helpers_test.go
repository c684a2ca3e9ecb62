// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/store"
	"github.com/dummyops/bouquins/internal/testutil"
)

// testPassword satisfies the default password policy and is shared by all
// seeded accounts in tests.
const testPassword = "applepie94@"

func seededServices(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	return testutil.SeededDB(t, testPassword)
}

func principalFor(t *testing.T, db *sql.DB, username string) model.Principal {
	t.Helper()
	user, err := store.New(db).GetUserByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("looking up %s: %v", username, err)
	}
	return model.Principal{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Disabled: user.Disabled,
	}
}

func adminPrincipal(t *testing.T, db *sql.DB) model.Principal {
	t.Helper()
	return principalFor(t, db, "admin")
}

func testPolicy() auth.Policy {
	return auth.DefaultPolicy()
}
