// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail sends transactional email through the provider's HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

const (
	sendTimeout = 15 * time.Second
	maxRetries  = 2
)

// ErrSendFailed reports a definitive provider refusal. Callers treat it as
// terminal rather than retrying the whole job.
var ErrSendFailed = errors.New("mail sending failed")

// Client talks to the mail provider. A Client with an empty API key is
// disabled and drops messages silently.
type Client struct {
	apiKey string
	apiURL string
	from   string
	client *http.Client
}

// New creates a mail client. apiURL points at the provider's send endpoint;
// tests substitute a local server.
func New(apiKey, apiURL, from string) *Client {
	return &Client{
		apiKey: apiKey,
		apiURL: apiURL,
		from:   from,
		client: &http.Client{Timeout: sendTimeout},
	}
}

// Enabled reports whether mail delivery is active.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// message mirrors the provider's send payload.
type message struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
	Attachments      []attachment      `json:"attachments,omitempty"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type attachment struct {
	Content     string `json:"content"`
	Filename    string `json:"filename"`
	Type        string `json:"type"`
	Disposition string `json:"disposition"`
}

// SendBooksPDF emails the rendered books PDF to the recipient. Transport
// errors are retried twice; a provider refusal comes back as ErrSendFailed.
func (c *Client) SendBooksPDF(ctx context.Context, recipient, pdfPath string) error {
	if !c.Enabled() {
		return nil
	}

	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("reading pdf attachment: %w", err)
	}

	msg := message{
		Personalizations: []personalization{{To: []emailAddress{{Email: recipient}}}},
		From:             emailAddress{Email: c.from},
		Subject:          "Dummy-ops books",
		Content: []content{{
			Type: "text/html",
			Value: "Find attached the books published on dummy-ops.dev<br>" +
				"<strong>Thank you for your interest.</strong>",
		}},
		Attachments: []attachment{{
			Content:     base64.StdEncoding.EncodeToString(pdfData),
			Filename:    filepath.Base(pdfPath),
			Type:        "application/pdf",
			Disposition: "attachment",
		}},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("building mail request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		_ = resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("%w: provider returned %d", ErrSendFailed, resp.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrSendFailed, lastErr)
}
