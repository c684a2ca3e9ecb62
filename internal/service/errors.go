// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic layer shared by the browser
// handlers and the JSON API: validation, authorization and persistence
// orchestration for users, books, categories, comments, quotes and stars.
package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a missing resource.
	ErrNotFound = errors.New("resource not found")

	// ErrNotOwner reports a mutation attempted by a principal that neither
	// owns the resource nor holds the admin role.
	ErrNotOwner = errors.New("only the owner can do that")

	// ErrForbiddenRole reports an operation reserved to administrators.
	ErrForbiddenRole = errors.New("admin role required")

	// ErrInvalidCredentials reports a failed username/email/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInactiveUser reports an authentication attempt by a disabled account.
	ErrInactiveUser = errors.New("inactive user")
)

// SemanticError reports input that is well-formed but invalid: placeholder
// text, out-of-range values, weak passwords, duplicate names.
type SemanticError struct {
	Detail string
}

func (e *SemanticError) Error() string { return e.Detail }

func semanticErrorf(format string, args ...any) *SemanticError {
	return &SemanticError{Detail: fmt.Sprintf(format, args...)}
}

// IsSemantic reports whether err is a SemanticError.
func IsSemantic(err error) bool {
	var se *SemanticError
	return errors.As(err, &se)
}

const placeholderText = "string"

// checkText validates a free-text field against its length bounds and the
// placeholder rejection rule.
func checkText(field, value string, minLen, maxLen int) error {
	if strings.EqualFold(value, placeholderText) {
		return semanticErrorf("%s cannot be the placeholder value", field)
	}
	if len(value) < minLen {
		return semanticErrorf("%s must be at least %d characters", field, minLen)
	}
	if maxLen > 0 && len(value) > maxLen {
		return semanticErrorf("%s must be at most %d characters", field, maxLen)
	}
	return nil
}
