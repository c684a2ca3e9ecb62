// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package captcha verifies CAPTCHA challenge responses on the sensitive
// browser flows (login, register, contact).
package captcha

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	verifyTimeout = 10 * time.Second
	maxRetries    = 2
)

// Verifier checks challenge responses against the provider's verification
// endpoint. A Verifier with an empty secret is disabled and accepts
// everything.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// New creates a Verifier. verifyURL points at the provider's siteverify
// endpoint; tests substitute a local server.
func New(secret, verifyURL string) *Verifier {
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: verifyTimeout},
	}
}

// Enabled reports whether verification is active.
func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != ""
}

// verifyResponse is the provider's JSON answer.
type verifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a challenge response token. A transport failure is retried
// twice before giving up.
func (v *Verifier) Verify(response, remoteIP string) (bool, error) {
	if !v.Enabled() {
		return true, nil
	}
	if response == "" {
		return false, nil
	}

	data := url.Values{}
	data.Set("secret", v.secret)
	data.Set("response", response)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}
	body := data.Encode()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := v.client.Post(v.verifyURL, "application/x-www-form-urlencoded", strings.NewReader(body))
		if err != nil {
			lastErr = err
			continue
		}

		var result verifyResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return result.Success, nil
	}
	return false, fmt.Errorf("captcha verification request failed: %w", lastErr)
}

// ResponseFromForm extracts the challenge response from a submitted form.
func ResponseFromForm(r *http.Request) string {
	return r.FormValue("h-captcha-response")
}

// RemoteIP extracts the client IP, honoring reverse proxy headers.
func RemoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx > 0 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
