// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance: sweeping PDF files left
// behind by crashed or interrupted mail jobs.
package scheduler

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// maxPDFAge is how long a rendered PDF may linger before the sweep removes
// it. A healthy job deletes its file right after mailing.
const maxPDFAge = time.Hour

// Scheduler handles periodic maintenance tasks.
type Scheduler struct {
	cron     *cron.Cron
	pdfDir   string
	fileStem string
	logger   *slog.Logger
}

// New creates a scheduler sweeping the given PDF output directory.
func New(pdfDir, fileStem string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		pdfDir:   pdfDir,
		fileStem: fileStem,
		logger:   logger,
	}
}

// Start registers the hourly orphan sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		if err := s.SweepOrphanedPDFs(); err != nil {
			s.logger.Error("pdf sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// SweepOrphanedPDFs removes rendered PDFs older than maxPDFAge. Only files
// matching the configured stem are touched.
func (s *Scheduler) SweepOrphanedPDFs() error {
	entries, err := os.ReadDir(s.pdfDir)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-maxPDFAge)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, s.fileStem+"-") || !strings.HasSuffix(name, ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.pdfDir, name)
		if err := os.Remove(path); err != nil {
			s.logger.Warn("could not remove orphaned pdf", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("swept orphaned pdfs", "count", removed)
	}
	return nil
}
