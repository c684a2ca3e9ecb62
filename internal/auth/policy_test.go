// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestPolicyCheck(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "applepie94@", true},
		{"valid with several specials", "appl3pie?!+", true},
		{"too short", "app1e@", false},
		{"too long", "applepie94@" + strings.Repeat("a", 70), false},
		{"no digit", "applepie@@", false},
		{"no special", "applepie94", false},
		{"special not in allowed set", "applepie94#", false},
		{"forbidden space", "apple pie94@", false},
		{"forbidden backtick", "applepie94@`", false},
		{"forbidden slash", "applepie94@/", false},
		{"forbidden angle bracket", "applepie94@<", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Check(tt.password); got != tt.want {
				t.Errorf("Check(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestPolicyCheck_CustomThresholds(t *testing.T) {
	policy := Policy{MinLength: 4, MaxLength: 8, MinDigits: 2, MinSpecial: 0}

	if !policy.Check("ab12") {
		t.Error("password matching custom thresholds was rejected")
	}
	if policy.Check("ab1") {
		t.Error("password with too few digits and chars was accepted")
	}
	if policy.Check("abcdef123") {
		t.Error("password above custom max length was accepted")
	}
}
