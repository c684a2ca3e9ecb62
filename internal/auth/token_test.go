// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}

	token, err := tm.GenerateToken("donald")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	username, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken error: %v", err)
	}
	if username != "donald" {
		t.Fatalf("ValidateToken returned %q, want donald", username)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	tm, err := NewTokenManager(testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}
	// Negative TTL falls back to the default, so build an expired manager
	// directly.
	tm.ttl = -time.Minute

	token, err := tm.GenerateToken("donald")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tm, err := NewTokenManager(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}
	other, err := NewTokenManager("fedcba9876543210fedcba9876543210", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}

	token, err := tm.GenerateToken("donald")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	tm, err := NewTokenManager(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}
	if _, err := tm.ValidateToken("not.a.token"); err == nil {
		t.Fatal("garbage token was accepted")
	}
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Minute); err == nil {
		t.Fatal("empty secret was accepted")
	}
}
