// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session store backing the
// browser surface.
package session

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyUserID      = "user_id"
	KeyFingerprint = "fingerprint"
	KeyFlash       = "flash"
)

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, lifetime time.Duration, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}

// Fingerprint derives a stable digest of the client address and user agent.
// It is stored at login and compared on every authenticated request so a
// stolen cookie is useless from another client.
func Fingerprint(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	sum := sha256.Sum256([]byte(host + "|" + r.UserAgent()))
	return hex.EncodeToString(sum[:])
}

// Login renews the session token and binds it to the user and client.
func Login(sm *scs.SessionManager, r *http.Request, userID int64) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), KeyUserID, userID)
	sm.Put(r.Context(), KeyFingerprint, Fingerprint(r))
	return nil
}

// Logout destroys the session.
func Logout(sm *scs.SessionManager, r *http.Request) error {
	return sm.Destroy(r.Context())
}

// Flash queues a one-shot status message for the next rendered page.
func Flash(sm *scs.SessionManager, r *http.Request, message string) {
	sm.Put(r.Context(), KeyFlash, message)
}

// PopFlash returns and clears the queued status message, if any.
func PopFlash(sm *scs.SessionManager, r *http.Request) string {
	return sm.PopString(r.Context(), KeyFlash)
}
