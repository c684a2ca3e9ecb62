// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package secrets resolves credential material either from a secrets
// directory (production) or from environment variables (everywhere else).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source resolves named secrets. In production scope the value is read from
// a file named after the secret inside Dir; otherwise the environment
// variable of the same name is used.
type Source struct {
	Dir        string
	Production bool
}

// New creates a secret source rooted at dir.
func New(dir string, production bool) *Source {
	return &Source{Dir: dir, Production: production}
}

// Get returns the value of the named secret, or an error if it is unset.
func (s *Source) Get(name string) (string, error) {
	if s.Production {
		path := filepath.Join(s.Dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading secret %s: %w", name, err)
		}
		value := strings.TrimSpace(string(data))
		if value == "" {
			return "", fmt.Errorf("secret %s is empty", name)
		}
		return value, nil
	}

	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return value, nil
}

// GetOr returns the named secret, falling back to def when it is unset.
func (s *Source) GetOr(name, def string) string {
	value, err := s.Get(name)
	if err != nil {
		return def
	}
	return value
}
