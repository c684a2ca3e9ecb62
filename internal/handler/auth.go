// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/captcha"
	"github.com/dummyops/bouquins/internal/render"
	"github.com/dummyops/bouquins/internal/service"
	"github.com/dummyops/bouquins/internal/session"
)

// AuthHandler handles login, registration, logout and the contact form.
type AuthHandler struct {
	users          *service.UserService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	captcha        *captcha.Verifier
	captchaSiteKey string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, policy auth.Policy, renderer *render.Renderer, sm *scs.SessionManager, verifier *captcha.Verifier, siteKey string) *AuthHandler {
	return &AuthHandler{
		users:          service.NewUserService(db, policy),
		renderer:       renderer,
		sessionManager: sm,
		captcha:        verifier,
		captchaSiteKey: siteKey,
	}
}

// RegisterRoutes mounts the auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/logout", h.Logout)
	r.Get("/contact", h.ContactForm)
	r.Post("/contact", h.Contact)
}

func (h *AuthHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		Principal: principalOf(r),
		Data:      map[string]any{"CaptchaSiteKey": h.captchaSiteKey},
	})
	if err != nil {
		slog.Error("render page", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// checkCaptcha verifies the challenge response; on failure it flashes and
// redirects back to redirectTo.
func (h *AuthHandler) checkCaptcha(w http.ResponseWriter, r *http.Request, redirectTo string) bool {
	ok, err := h.captcha.Verify(captcha.ResponseFromForm(r), captcha.RemoteIP(r))
	if err != nil {
		slog.Error("captcha verification", "error", err)
	}
	if !ok {
		session.Flash(h.sessionManager, r, "Le captcha n'a pas pu être vérifié.")
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return false
	}
	return true
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if !principalOf(r).Anonymous() {
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, "login", "Connexion")
}

// Login authenticates the username/email/password triple and opens a
// session bound to the client.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, http.StatusBadRequest, "Formulaire invalide.")
		return
	}
	if !h.checkCaptcha(w, r, RouteLogin) {
		return
	}

	user, err := h.users.AuthenticateBrowser(r.Context(),
		r.FormValue("login"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInactiveUser) {
			session.Flash(h.sessionManager, r, "Compte désactivé.")
		} else {
			session.Flash(h.sessionManager, r, "Identifiants invalides.")
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if err := session.Login(h.sessionManager, r, user.ID); err != nil {
		slog.Error("session login", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	session.Flash(h.sessionManager, r, "Bienvenue "+user.Username+" !")
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if !principalOf(r).Anonymous() {
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, "register", "Inscription")
}

// Register creates an account and redirects to the login page.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, http.StatusBadRequest, "Formulaire invalide.")
		return
	}
	if !h.checkCaptcha(w, r, "/register") {
		return
	}

	_, err := h.users.Register(r.Context(), service.RegisterInput{
		Username:      r.FormValue("login"),
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		PasswordCheck: r.FormValue("password_check"),
	})
	if err != nil {
		if service.IsSemantic(err) {
			session.Flash(h.sessionManager, r, err.Error())
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		slog.Error("register", "error", err)
		renderError(h.renderer, w, r, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	session.Flash(h.sessionManager, r, "Compte créé, vous pouvez vous connecter.")
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(h.sessionManager, r); err != nil {
		slog.Error("session logout", "error", err)
	}
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}

// ContactForm renders the contact page.
func (h *AuthHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "contact", "Contact")
}

// Contact accepts a contact message. The message is logged; delivery to the
// operators is out of band.
func (h *AuthHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, http.StatusBadRequest, "Formulaire invalide.")
		return
	}
	if !h.checkCaptcha(w, r, "/contact") {
		return
	}

	email := r.FormValue("email")
	message := r.FormValue("message")
	if email == "" || len(message) < 3 {
		session.Flash(h.sessionManager, r, "Email et message requis.")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	slog.Info("contact message received", "from", email, "length", len(message))
	session.Flash(h.sessionManager, r, "Message envoyé, merci.")
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}
