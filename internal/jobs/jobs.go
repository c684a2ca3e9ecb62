// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package jobs implements the background PDF-and-email pipeline: an API
// handler enqueues a job on the broker, a worker renders the catalogue to
// PDF and mails it to the requesting user.
package jobs

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topic is the broker queue carrying PDF-and-email jobs.
const Topic = "books.pdf.email"

// Job statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Payload is the job message body.
type Payload struct {
	RecipientEmail string `json:"recipient_email"`
}

// Result is the outcome of one processed job.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewMessage packs a payload into a broker message.
func NewMessage(p Payload) (*message.Message, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding job payload: %w", err)
	}
	return message.NewMessage(uuid.NewString(), body), nil
}

// Enqueue publishes one PDF-and-email job for the recipient.
func Enqueue(publisher message.Publisher, recipientEmail string) error {
	msg, err := NewMessage(Payload{RecipientEmail: recipientEmail})
	if err != nil {
		return err
	}
	return publisher.Publish(Topic, msg)
}
