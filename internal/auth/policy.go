// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "strings"

// AllowedSpecialChars are the special characters that count towards the
// policy's minimum-special requirement.
const AllowedSpecialChars = "@?!%$^+"

// ForbiddenChars may not appear anywhere in a password.
const ForbiddenChars = " ,`|/\\{}[]*:;<>"

// Policy holds the configurable password policy thresholds.
type Policy struct {
	MinLength  int
	MaxLength  int
	MinDigits  int
	MinSpecial int
}

// DefaultPolicy returns the policy shipped with the application.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:  10,
		MaxLength:  75,
		MinDigits:  1,
		MinSpecial: 1,
	}
}

// Check reports whether a candidate password satisfies the policy:
// length within bounds, enough digits, enough allowed special characters,
// and no forbidden character at all.
func (p Policy) Check(password string) bool {
	if len(password) < p.MinLength || len(password) > p.MaxLength {
		return false
	}

	digits := 0
	specials := 0
	for _, char := range password {
		switch {
		case char >= '0' && char <= '9':
			digits++
		case strings.ContainsRune(AllowedSpecialChars, char):
			specials++
		case strings.ContainsRune(ForbiddenChars, char):
			return false
		}
	}

	return digits >= p.MinDigits && specials >= p.MinSpecial
}
