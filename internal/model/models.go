// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain models shared by both HTTP surfaces:
// User, Book, BookCategory, Comment, Quote and Starred, plus the Principal
// type carried by authenticated requests.
package model

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AdminUserID is the bootstrap administrator. The row is created at startup
// and is never deletable through either surface.
const AdminUserID = 1

// User represents a blog account. Counters are derived from live COUNT(*)
// queries at read time, never stored.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose in JSON
	Role           string    `json:"role"`
	Disabled       bool      `json:"disabled"`
	CreatedAt      time.Time `json:"created_at"`
	NbPublications int64     `json:"nb_publications"`
	NbComments     int64     `json:"nb_comments"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Book is a publication owned by a user. CategoryName carries the resolved
// category title for reads; writes go through category-by-name resolution.
type Book struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Summary           string    `json:"summary"`
	Content           string    `json:"content"`
	Author            string    `json:"author"`
	CategoryID        int64     `json:"category"`
	CategoryName      string    `json:"category_name"`
	YearOfPublication int64     `json:"year_of_publication"`
	BookPictureName   string    `json:"book_picture_name"`
	PublicationDate   time.Time `json:"publication_date"`
	UserID            int64     `json:"user_id"`
	NbComments        int64     `json:"nb_comments"`
	NbStarred         int64     `json:"nb_starred"`
}

// BookCategory is one of the blog's book categories. Titles are stored
// lower-cased and are unique.
type BookCategory struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Comment is a user comment against a book.
type Comment struct {
	ID              int64     `json:"id"`
	Text            string    `json:"text"`
	PublicationDate time.Time `json:"publication_date"`
	AuthorID        int64     `json:"author_id"`
	BookID          int64     `json:"book_id"`
}

// Quote is an admin-curated quote; it does not have to come from a book
// published on the blog.
type Quote struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	BookTitle string `json:"book_title"`
	Quote     string `json:"quote"`
}

// Starred marks a book as starred by a user; at most one row per pair.
type Starred struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	BookID int64 `json:"book_id"`
}

// Principal is the authenticated actor associated with a request. The zero
// value is the anonymous principal.
type Principal struct {
	ID       int64
	Username string
	Role     string
	Disabled bool
}

// Anonymous reports whether the principal is unauthenticated.
func (p Principal) Anonymous() bool {
	return p.ID == 0
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether the principal owns the resource belonging to ownerID.
func (p Principal) Owns(ownerID int64) bool {
	return !p.Anonymous() && p.ID == ownerID
}
