// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package jobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"

	"github.com/dummyops/bouquins/internal/mail"
	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/pdf"
)

// BookLister supplies the catalogue to render. Satisfied by
// service.BookService.
type BookLister interface {
	List(ctx context.Context) ([]model.Book, error)
}

// Worker consumes PDF-and-email jobs: render the catalogue, mail it, remove
// the file.
type Worker struct {
	books    BookLister
	renderer *pdf.Renderer
	mailer   *mail.Client
	log      *slog.Logger
}

// NewWorker creates a Worker.
func NewWorker(books BookLister, renderer *pdf.Renderer, mailer *mail.Client, log *slog.Logger) *Worker {
	return &Worker{
		books:    books,
		renderer: renderer,
		mailer:   mailer,
		log:      log,
	}
}

// Run consumes jobs until the context is canceled. Terminal outcomes,
// success or definitive failure, are acked; transient errors are nacked so
// the broker redelivers.
func (w *Worker) Run(ctx context.Context, subscriber message.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", Topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			result, err := w.Process(ctx, msg.Payload)
			if err != nil {
				w.log.Error("job failed, requeueing", "uuid", msg.UUID, "error", err)
				msg.Nack()
				continue
			}
			w.log.Info("job done", "uuid", msg.UUID, "status", result.Status, "message", result.Message)
			msg.Ack()
		}
	}
}

// Process handles one job payload. The returned Result covers terminal
// outcomes; a non-nil error means the job should be retried.
func (w *Worker) Process(ctx context.Context, payload []byte) (Result, error) {
	var job Payload
	if err := json.Unmarshal(payload, &job); err != nil {
		// A malformed payload will never parse better on redelivery.
		return Result{Status: StatusFailure, Message: "Invalid job payload"}, nil
	}

	books, err := w.books.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing books: %w", err)
	}

	pdfPath, err := w.renderer.Render(books)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{Status: StatusFailure, Message: "Books file not found"}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("rendering pdf: %w", err)
	}
	defer func() {
		if err := os.Remove(pdfPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.log.Warn("could not remove pdf", "path", pdfPath, "error", err)
		}
	}()

	if err := w.mailer.SendBooksPDF(ctx, job.RecipientEmail, pdfPath); err != nil {
		if errors.Is(err, mail.ErrSendFailed) {
			return Result{Status: StatusFailure, Message: "Mail sending failed"}, nil
		}
		return Result{}, fmt.Errorf("sending mail: %w", err)
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Email sent successfully to %s", job.RecipientEmail),
	}, nil
}
