// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOUQUINS_SESSION_SECRET", "S3ss10n-secret-with-32-chars-ok!!")
	t.Setenv("BOUQUINS_JWT_SECRET", "Jwt-S3cret-with-32-characters-ok!")
	t.Setenv("BOUQUINS_ADMIN_PASSWORD", "applepie94@")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Scope != ScopeDevelopment {
		t.Errorf("Scope = %q, want development", cfg.Scope)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q, want localhost:8080", cfg.ServerAddr())
	}
	if cfg.PageSize != 6 {
		t.Errorf("PageSize = %d, want 6", cfg.PageSize)
	}
	if cfg.MaxHome != 3 {
		t.Errorf("MaxHome = %d, want 3", cfg.MaxHome)
	}
	if cfg.PasswordMinLength != 10 || cfg.PasswordMaxLength != 75 {
		t.Errorf("password bounds = %d..%d, want 10..75", cfg.PasswordMinLength, cfg.PasswordMaxLength)
	}
	if cfg.CaptchaEnabled() {
		t.Error("CaptchaEnabled with no secret configured")
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled with no provider configured")
	}
}

func TestLoad_InvalidScope(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOUQUINS_SCOPE", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("invalid scope was accepted")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOUQUINS_JWT_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("short secret was accepted")
	}
	if !strings.Contains(err.Error(), "BOUQUINS_JWT_SECRET") {
		t.Errorf("error %q does not name the offending variable", err)
	}
}

func TestLoad_KnownWeakSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOUQUINS_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("known weak secret was accepted")
	}
}

func TestLoad_InvalidPasswordBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOUQUINS_PASSWORD_MIN_LENGTH", "20")
	t.Setenv("BOUQUINS_PASSWORD_MAX_LENGTH", "10")

	if _, err := Load(); err == nil {
		t.Fatal("inverted password bounds were accepted")
	}
}

func TestLoad_InvalidPageSize(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOUQUINS_PAGE_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("zero page size was accepted")
	}
}

func TestScopeHelpers(t *testing.T) {
	cfg := Config{Scope: ScopeProduction}
	if !cfg.IsProduction() || cfg.IsDevelopment() || cfg.IsTest() {
		t.Error("production scope helpers misreport")
	}
	cfg.Scope = ScopeTest
	if !cfg.IsTest() || cfg.IsProduction() {
		t.Error("test scope helpers misreport")
	}
}
