// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dummyops/bouquins/internal/render"
	"github.com/dummyops/bouquins/internal/service"
	"github.com/dummyops/bouquins/internal/session"
)

// MaxUploadBytes caps book picture uploads.
const MaxUploadBytes = 1 << 20

// maxPictureWidth is the width uploaded pictures are resized down to.
const maxPictureWidth = 800

// BooksHandler handles the book pages: home, listings, detail, CRUD forms,
// comments and stars.
type BooksHandler struct {
	books          *service.BookService
	comments       *service.CommentService
	categories     *service.CategoryService
	starred        *service.StarredService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	uploadsDir     string
	pageSize       int64
	maxHome        int64
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, uploadsDir string, pageSize, maxHome int64) *BooksHandler {
	return &BooksHandler{
		books:          service.NewBookService(db),
		comments:       service.NewCommentService(db),
		categories:     service.NewCategoryService(db),
		starred:        service.NewStarredService(db),
		renderer:       renderer,
		sessionManager: sm,
		uploadsDir:     uploadsDir,
		pageSize:       pageSize,
		maxHome:        maxHome,
	}
}

// RegisterRoutes mounts the book routes.
func (h *BooksHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/front/home/", h.Home)
	r.Get("/front/books/", h.List)
	r.Get("/front/book/{id}/", h.Detail)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/front/book/add/", h.AddForm)
		r.Post("/front/book/add/", h.Add)
		r.Get("/front/book/{id}/update/", h.UpdateForm)
		r.Post("/front/book/{id}/update/", h.Update)
		r.Post("/front/book/{id}/delete/", h.Delete)
		r.Post("/front/book/{id}/comment/", h.Comment)
		r.Post("/front/book/{id}/star/", h.Star)
		r.Post("/front/book/{id}/unstar/", h.Unstar)
		r.Get("/front/books/starred/", h.StarredList)
	})
}

// Home shows a random sample of books.
func (h *BooksHandler) Home(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListRandom(r.Context(), h.maxHome)
	if err != nil {
		slog.Error("home books", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	err = h.renderer.Render(w, r, "home", render.TemplateData{
		Title:     "Accueil",
		Principal: principalOf(r),
		Data:      map[string]any{"Books": books},
	})
	if err != nil {
		slog.Error("render home", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// List shows one page of books, newest first.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}

	books, total, err := h.books.ListPage(r.Context(), h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		slog.Error("list books", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	pages := (total + h.pageSize - 1) / h.pageSize
	if pages < 1 {
		pages = 1
	}

	err = h.renderer.Render(w, r, "books", render.TemplateData{
		Title:     "Les bouquins",
		Principal: principalOf(r),
		Data: map[string]any{
			"Books": books,
			"Page":  page,
			"Pages": pages,
		},
	})
	if err != nil {
		slog.Error("render books", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Detail shows one book with its comments.
func (h *BooksHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Livre introuvable.")
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Livre introuvable.")
		return
	}

	comments, err := h.comments.ListByBook(r.Context(), book.ID)
	if err != nil {
		slog.Error("book comments", "book_id", book.ID, "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	principal := principalOf(r)
	isStarred, err := h.starred.IsStarred(r.Context(), principal, book.ID)
	if err != nil {
		slog.Error("book starred", "book_id", book.ID, "error", err)
	}

	err = h.renderer.Render(w, r, "book", render.TemplateData{
		Title:     book.Title,
		Principal: principal,
		Data: map[string]any{
			"Book":     book,
			"Comments": comments,
			"Starred":  isStarred,
			"CanEdit":  principal.Owns(book.UserID) || principal.IsAdmin(),
		},
	})
	if err != nil {
		slog.Error("render book", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *BooksHandler) renderBookForm(w http.ResponseWriter, r *http.Request, title string, book any) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		slog.Error("list categories", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	err = h.renderer.Render(w, r, "book_form", render.TemplateData{
		Title:     title,
		Principal: principalOf(r),
		Data: map[string]any{
			"Book":       book,
			"Categories": categories,
		},
	})
	if err != nil {
		slog.Error("render book form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AddForm renders the publication form.
func (h *BooksHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderBookForm(w, r, "Publier un livre", struct {
		Title, Summary, Content, Author, CategoryName string
		YearOfPublication                             int64
	}{})
}

// bookInputFromForm builds a BookInput from the submitted form, saving the
// uploaded picture when one is present.
func (h *BooksHandler) bookInputFromForm(w http.ResponseWriter, r *http.Request) (service.BookInput, bool) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			renderError(h.renderer, w, r, http.StatusRequestEntityTooLarge, "Fichier trop volumineux (1 Mo maximum).")
		} else {
			renderError(h.renderer, w, r, http.StatusBadRequest, "Formulaire invalide.")
		}
		return service.BookInput{}, false
	}

	year, err := strconv.ParseInt(r.FormValue("year_of_publication"), 10, 64)
	if err != nil {
		session.Flash(h.sessionManager, r, "L'année de publication doit être un nombre entier.")
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return service.BookInput{}, false
	}

	in := service.BookInput{
		Title:             r.FormValue("title"),
		Summary:           r.FormValue("summary"),
		Content:           r.FormValue("content"),
		Author:            r.FormValue("author"),
		Category:          r.FormValue("category"),
		YearOfPublication: year,
	}

	pictureName, err := h.savePicture(r)
	if err != nil {
		session.Flash(h.sessionManager, r, err.Error())
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return service.BookInput{}, false
	}
	in.BookPictureName = pictureName

	return in, true
}

// savePicture stores an uploaded book picture, resized to a sane width. It
// returns the stored file name, or "" when no file was sent.
func (h *BooksHandler) savePicture(r *http.Request) (string, error) {
	file, header, err := r.FormFile("book_picture")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fichier illisible")
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", fmt.Errorf("format d'image non supporté (jpg, jpeg ou png)")
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("image invalide")
	}
	if img.Bounds().Dx() > maxPictureWidth {
		img = imaging.Resize(img, maxPictureWidth, 0, imaging.Lanczos)
	}

	name := uuid.NewString() + ext
	if err := imaging.Save(img, filepath.Join(h.uploadsDir, name)); err != nil {
		slog.Error("save picture", "error", err)
		return "", fmt.Errorf("impossible d'enregistrer l'image")
	}
	return name, nil
}

// Add creates a book from the publication form.
func (h *BooksHandler) Add(w http.ResponseWriter, r *http.Request) {
	in, ok := h.bookInputFromForm(w, r)
	if !ok {
		return
	}

	book, err := h.books.Create(r.Context(), principalOf(r), in)
	if err != nil {
		h.flashServiceError(w, r, err, "/front/book/add/")
		return
	}

	session.Flash(h.sessionManager, r, "Livre publié.")
	http.Redirect(w, r, fmt.Sprintf("/front/book/%d/", book.ID), http.StatusSeeOther)
}

// UpdateForm renders the edit form for a book.
func (h *BooksHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Livre introuvable.")
		return
	}
	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Livre introuvable.")
		return
	}
	principal := principalOf(r)
	if !principal.Owns(book.UserID) && !principal.IsAdmin() {
		renderError(h.renderer, w, r, http.StatusForbidden, "Ce livre ne vous appartient pas.")
		return
	}
	h.renderBookForm(w, r, "Modifier "+book.Title, book)
}

// Update applies the edit form to a book.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Livre introuvable.")
		return
	}
	in, ok := h.bookInputFromForm(w, r)
	if !ok {
		return
	}

	book, err := h.books.Update(r.Context(), principalOf(r), id, in)
	if err != nil {
		h.flashServiceError(w, r, err, fmt.Sprintf("/front/book/%d/update/", id))
		return
	}

	session.Flash(h.sessionManager, r, "Livre mis à jour.")
	http.Redirect(w, r, fmt.Sprintf("/front/book/%d/", book.ID), http.StatusSeeOther)
}

// Delete removes a book.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Livre introuvable.")
		return
	}

	if err := h.books.Delete(r.Context(), principalOf(r), id); err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Suppression impossible.")
		return
	}

	session.Flash(h.sessionManager, r, "Livre supprimé.")
	http.Redirect(w, r, "/front/books/", http.StatusSeeOther)
}

// Comment posts a comment on a book.
func (h *BooksHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Livre introuvable.")
		return
	}
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, http.StatusBadRequest, "Formulaire invalide.")
		return
	}

	_, err = h.comments.Create(r.Context(), principalOf(r), id, r.FormValue("text"))
	if err != nil {
		h.flashServiceError(w, r, err, fmt.Sprintf("/front/book/%d/", id))
		return
	}

	session.Flash(h.sessionManager, r, "Commentaire publié.")
	http.Redirect(w, r, fmt.Sprintf("/front/book/%d/", id), http.StatusSeeOther)
}

// Star marks a book as a favorite.
func (h *BooksHandler) Star(w http.ResponseWriter, r *http.Request) {
	h.toggleStar(w, r, true)
}

// Unstar removes a favorite.
func (h *BooksHandler) Unstar(w http.ResponseWriter, r *http.Request) {
	h.toggleStar(w, r, false)
}

func (h *BooksHandler) toggleStar(w http.ResponseWriter, r *http.Request, star bool) {
	id, err := urlID(r)
	if err != nil {
		renderError(h.renderer, w, r, http.StatusNotFound, "Livre introuvable.")
		return
	}

	if star {
		_, err = h.starred.Star(r.Context(), principalOf(r), id)
	} else {
		err = h.starred.Unstar(r.Context(), principalOf(r), id)
	}
	if err != nil {
		h.flashServiceError(w, r, err, fmt.Sprintf("/front/book/%d/", id))
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/front/book/%d/", id), http.StatusSeeOther)
}

// StarredList shows the principal's favorites.
func (h *BooksHandler) StarredList(w http.ResponseWriter, r *http.Request) {
	books, err := h.starred.ListBooks(r.Context(), principalOf(r))
	if err != nil {
		renderError(h.renderer, w, r, serviceErrorStatus(err), "Erreur interne.")
		return
	}

	err = h.renderer.Render(w, r, "starred", render.TemplateData{
		Title:     "Mes favoris",
		Principal: principalOf(r),
		Data:      map[string]any{"Books": books},
	})
	if err != nil {
		slog.Error("render starred", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// flashServiceError surfaces semantic errors as a flash and everything else
// as an error page.
func (h *BooksHandler) flashServiceError(w http.ResponseWriter, r *http.Request, err error, redirectTo string) {
	if service.IsSemantic(err) || errors.Is(err, service.ErrNotFound) {
		session.Flash(h.sessionManager, r, err.Error())
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}
	if errors.Is(err, service.ErrNotOwner) || errors.Is(err, service.ErrForbiddenRole) {
		renderError(h.renderer, w, r, http.StatusForbidden, "Action non autorisée.")
		return
	}
	slog.Error("book operation", "error", err)
	renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
}
