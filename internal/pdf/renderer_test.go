// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package pdf

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dummyops/bouquins/internal/model"
)

func sampleBooks() []model.Book {
	return []model.Book{
		{
			Title:             "Voyage au bout de la nuit",
			Author:            "Louis-Ferdinand Céline",
			CategoryName:      "roman",
			YearOfPublication: 1932,
			PublicationDate:   time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
			Content:           strings.Repeat("Un roman qui a marqué son siècle. ", 40),
		},
		{
			Title:             "Les gratitudes",
			Author:            "Delphine de Vigan",
			CategoryName:      "roman",
			YearOfPublication: 2019,
			PublicationDate:   time.Date(2025, 4, 2, 18, 30, 0, 0, time.UTC),
			Content:           "Un court roman sur la vieillesse et la reconnaissance.",
		},
	}
}

func TestRender(t *testing.T) {
	outDir := t.TempDir()
	r := New(outDir, "dummy-ops-books", t.TempDir(), "")

	path, err := r.Render(sampleBooks())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if filepath.Dir(path) != outDir {
		t.Errorf("pdf written to %q, want directory %q", path, outDir)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "dummy-ops-books-") || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("pdf file name = %q, want stem-uuid.pdf", name)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat rendered pdf: %v", err)
	}
	if info.Size() == 0 {
		t.Error("rendered pdf is empty")
	}
}

func TestRender_UniqueFileNames(t *testing.T) {
	r := New(t.TempDir(), "dummy-ops-books", t.TempDir(), "")

	first, err := r.Render(sampleBooks())
	if err != nil {
		t.Fatalf("first Render error: %v", err)
	}
	second, err := r.Render(sampleBooks())
	if err != nil {
		t.Fatalf("second Render error: %v", err)
	}
	if first == second {
		t.Error("two renders produced the same file name")
	}
}

func TestRender_MissingOutputDir(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "missing"), "dummy-ops-books", t.TempDir(), "")

	if _, err := r.Render(sampleBooks()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Render error = %v, want wrapped fs.ErrNotExist", err)
	}
}
