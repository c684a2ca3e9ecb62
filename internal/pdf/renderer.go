// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pdf renders the full book catalogue into a PDF document for the
// background mail job.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/dummyops/bouquins/internal/model"
)

// Layout constants, in points.
const (
	margin            = 50
	headerImageSize   = 100
	footerImageSize   = 30
	lineAdvance       = 15
	spaceBetweenBooks = 20
)

// Renderer writes book catalogues as PDF files.
type Renderer struct {
	outDir      string
	fileStem    string
	imgDir      string
	bannerImage string
}

// New creates a Renderer. bannerImage decorates the page header and footer;
// an empty path leaves them blank.
func New(outDir, fileStem, imgDir, bannerImage string) *Renderer {
	return &Renderer{
		outDir:      outDir,
		fileStem:    fileStem,
		imgDir:      imgDir,
		bannerImage: bannerImage,
	}
}

// Render lays out every book on A4 pages and writes the document under a
// unique file name. It returns the path of the written file.
func (r *Renderer) Render(books []model.Book) (string, error) {
	if _, err := os.Stat(r.outDir); err != nil {
		return "", fmt.Errorf("pdf output directory: %w", err)
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)

	pageWidth, pageHeight := doc.GetPageSize()

	r.drawHeader(doc, pageWidth)
	y := float64(headerImageSize + margin)

	for _, book := range books {
		description := "DESCRIPTION: " + book.Content
		descriptionHeight := float64(len(r.wrapText(doc, description, pageWidth-100))) * lineAdvance
		bookHeight := 90 + descriptionHeight

		if y+bookHeight+footerImageSize+spaceBetweenBooks > pageHeight-margin {
			doc.AddPage()
			r.drawHeader(doc, pageWidth)
			y = headerImageSize + margin
		}

		y = r.drawBook(doc, book, margin, y, pageWidth)
		r.drawFooter(doc, pageWidth, pageHeight)
	}

	path := filepath.Join(r.outDir, fmt.Sprintf("%s-%s.pdf", r.fileStem, uuid.NewString()))
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing pdf: %w", err)
	}
	return path, nil
}

func (r *Renderer) drawHeader(doc *fpdf.Fpdf, pageWidth float64) {
	if r.bannerImage == "" {
		return
	}
	if _, err := os.Stat(r.bannerImage); err != nil {
		return
	}
	doc.ImageOptions(r.bannerImage, 0, 0, pageWidth, headerImageSize, false,
		fpdf.ImageOptions{AllowNegativePosition: true}, 0, "")
}

func (r *Renderer) drawFooter(doc *fpdf.Fpdf, pageWidth, pageHeight float64) {
	if r.bannerImage == "" {
		return
	}
	if _, err := os.Stat(r.bannerImage); err != nil {
		return
	}
	doc.ImageOptions(r.bannerImage,
		pageWidth/2-footerImageSize/2, pageHeight-margin,
		footerImageSize, footerImageSize, false,
		fpdf.ImageOptions{AllowNegativePosition: true}, 0, "")
}

// drawBook lays out one book starting at (x, y) and returns the y position
// below it.
func (r *Renderer) drawBook(doc *fpdf.Fpdf, book model.Book, x, y, pageWidth float64) float64 {
	lines := []string{
		"TITLE: " + book.Title,
		"AUTHOR: " + book.Author,
		"CATEGORY: " + book.CategoryName,
		fmt.Sprintf("YEAR OF PUBLICATION: %d", book.YearOfPublication),
		"PUBLICATION DATE: " + book.PublicationDate.Format("02-01-2006 15:04:05"),
	}
	for _, line := range lines {
		doc.Text(x, y, line)
		y += lineAdvance
	}

	picturePath := filepath.Join(r.imgDir, book.BookPictureName)
	if _, err := os.Stat(picturePath); err == nil && book.BookPictureName != "" {
		doc.ImageOptions(picturePath, x, y, headerImageSize, headerImageSize, false,
			fpdf.ImageOptions{AllowNegativePosition: true}, 0, "")
		y += headerImageSize + 10
	} else {
		doc.Text(x, y, "IMAGE: [Image not found]")
		y += lineAdvance
	}

	for _, line := range r.wrapText(doc, "DESCRIPTION: "+book.Content, pageWidth-100) {
		doc.Text(x, y, line)
		y += lineAdvance
	}

	return y + spaceBetweenBooks
}

// wrapText breaks text into lines that fit within maxWidth using the active
// font metrics.
func (r *Renderer) wrapText(doc *fpdf.Fpdf, text string, maxWidth float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		if doc.GetStringWidth(current+" "+word) < maxWidth {
			current += " " + word
		} else {
			lines = append(lines, strings.TrimSpace(current))
			current = word
		}
	}
	return append(lines, strings.TrimSpace(current))
}
