// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/handler/api"
	"github.com/dummyops/bouquins/internal/middleware"
	"github.com/dummyops/bouquins/internal/model"
	"github.com/dummyops/bouquins/internal/testutil"
)

const (
	testPassword = "applepie94@"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

// capturePublisher records published job messages instead of talking to a
// broker.
type capturePublisher struct {
	topics   []string
	messages []*message.Message
}

func (p *capturePublisher) Publish(topic string, messages ...*message.Message) error {
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, messages...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *capturePublisher) {
	t.Helper()
	db, cleanup := testutil.SeededDB(t, testPassword)
	t.Cleanup(cleanup)

	policy := auth.DefaultPolicy()
	tokenManager, err := auth.NewTokenManager(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	publisher := &capturePublisher{}

	tokenHandler := api.NewTokenHandler(db, policy, tokenManager)
	books := api.NewBooksHandler(db)
	categories := api.NewCategoriesHandler(db)
	comments := api.NewCommentsHandler(db)
	quotes := api.NewQuotesHandler(db)
	users := api.NewUsersHandler(db, policy)
	register := api.NewRegisterHandler(db, policy)
	download := api.NewDownloadHandler(db, policy, publisher)

	r := chi.NewRouter()
	r.Post("/token", tokenHandler.Token)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokenManager, db))

		r.Post("/register/", register.Register)

		r.Get("/books/", books.List)
		r.Post("/books/", books.Create)
		r.Get("/books/download/", download.Download)
		r.Get("/books/starred/", books.ListStarred)
		r.Get("/books/{id}/", books.Get)
		r.Put("/books/{id}/", books.Update)
		r.Patch("/books/{id}/", books.Patch)
		r.Delete("/books/{id}/", books.Delete)
		r.Post("/books/{id}/starred/", books.Star)
		r.Delete("/books/{id}/starred/", books.Unstar)

		r.Get("/books/categories/", categories.List)
		r.Post("/books/categories/", categories.Create)

		r.Get("/books/comments/all/", comments.ListAll)
		r.Post("/books/comments/", comments.Create)
		r.Get("/books/{book_id}/comments/", comments.ListByBook)

		r.Get("/quotes/", quotes.List)
		r.Post("/quotes/", quotes.Create)

		r.Get("/users/", users.List)
		r.Get("/users/me/", users.Me)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, publisher
}

func obtainToken(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := http.PostForm(srv.URL+"/token", form)
	if err != nil {
		t.Fatalf("POST /token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST /token status = %d, body %s", resp.StatusCode, body)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		t.Fatalf("decoding token response: %v", err)
	}
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("token response = %+v", tok)
	}
	return tok.AccessToken
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encoding payload: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return resp, data
}

func detailOf(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decoding error body %s: %v", body, err)
	}
	return e.Detail
}

func TestToken(t *testing.T) {
	srv, _ := newTestServer(t)

	obtainToken(t, srv, "donald", testPassword)

	resp, err := http.PostForm(srv.URL+"/token", url.Values{
		"username": {"donald"},
		"password": {"wrong-password"},
	})
	if err != nil {
		t.Fatalf("POST /token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", resp.StatusCode)
	}

	resp, err = http.PostForm(srv.URL+"/token", url.Values{
		"username": {"louloute"},
		"password": {testPassword},
	})
	if err != nil {
		t.Fatalf("POST /token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("disabled account status = %d, want 400", resp.StatusCode)
	}
}

func TestBooks(t *testing.T) {
	srv, _ := newTestServer(t)
	token := obtainToken(t, srv, "donald", testPassword)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/v1/books/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", resp.StatusCode)
	}

	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/books/", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var books []model.Book
	if err := json.Unmarshal(body, &books); err != nil {
		t.Fatalf("decoding book list: %v", err)
	}
	if len(books) != 8 {
		t.Errorf("book count = %d, want 8", len(books))
	}

	resp, body = doJSON(t, srv, http.MethodGet, "/api/v1/books/99999/", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing book status = %d, want 404", resp.StatusCode)
	}
	if detailOf(t, body) != "Resource not found" {
		t.Errorf("missing book detail = %q", detailOf(t, body))
	}

	create := map[string]any{
		"title":               "La peste",
		"summary":             "Oran sous la peste, une chronique de la résistance ordinaire.",
		"content":             "Le docteur Rieux raconte l'épidémie qui isole la ville d'Oran.",
		"author":              "Albert Camus",
		"category":            "roman",
		"year_of_publication": 1947,
	}
	resp, body = doJSON(t, srv, http.MethodPost, "/api/v1/books/", token, create)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, body)
	}
	var created model.Book
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decoding created book: %v", err)
	}
	if created.Title != "La peste" {
		t.Errorf("created title = %q", created.Title)
	}

	create["category"] = "cuisine"
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/books/", token, create)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown category status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/books/", token, map[string]any{"title": "Seul"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("incomplete payload status = %d, want 422", resp.StatusCode)
	}

	// daisy does not own donald's book
	daisyToken := obtainToken(t, srv, "daisy", testPassword)
	path := "/api/v1/books/" + itoa(created.ID) + "/"
	resp, body = doJSON(t, srv, http.MethodDelete, path, daisyToken, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("delete by non-owner status = %d, want 401", resp.StatusCode)
	}
	if detailOf(t, body) != "Only the owner can do that" {
		t.Errorf("delete by non-owner detail = %q", detailOf(t, body))
	}

	resp, _ = doJSON(t, srv, http.MethodDelete, path, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete by owner status = %d, want 204", resp.StatusCode)
	}
}

func TestStarredFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	token := obtainToken(t, srv, "daisy", testPassword)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/books/", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var books []model.Book
	if err := json.Unmarshal(body, &books); err != nil {
		t.Fatalf("decoding book list: %v", err)
	}
	target := "/api/v1/books/" + itoa(books[0].ID) + "/starred/"

	resp, _ = doJSON(t, srv, http.MethodPost, target, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("star status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, srv, http.MethodGet, "/api/v1/books/starred/", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("starred list status = %d", resp.StatusCode)
	}
	var starred []model.Book
	if err := json.Unmarshal(body, &starred); err != nil {
		t.Fatalf("decoding starred list: %v", err)
	}
	if len(starred) != 1 || starred[0].ID != books[0].ID {
		t.Errorf("starred list = %d entries", len(starred))
	}

	resp, _ = doJSON(t, srv, http.MethodDelete, target, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("unstar status = %d, want 204", resp.StatusCode)
	}
}

func TestQuotes_RoleEnforcement(t *testing.T) {
	srv, _ := newTestServer(t)

	userToken := obtainToken(t, srv, "donald", testPassword)
	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/quotes/", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("standard user status = %d, want 403", resp.StatusCode)
	}
	if detailOf(t, body) != "Insufficient privileges" {
		t.Errorf("detail = %q", detailOf(t, body))
	}

	adminToken := obtainToken(t, srv, "admin", testPassword)
	quote := map[string]any{
		"author":     "Blaise Pascal",
		"book_title": "Pensées",
		"quote":      "Le coeur a ses raisons que la raison ne connaît point.",
	}
	resp, body = doJSON(t, srv, http.MethodPost, "/api/v1/quotes/", adminToken, quote)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin create status = %d, body %s", resp.StatusCode, body)
	}
	resp, _ = doJSON(t, srv, http.MethodGet, "/api/v1/quotes/", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin list status = %d", resp.StatusCode)
	}
}

func TestRegisterAndMe(t *testing.T) {
	srv, _ := newTestServer(t)
	token := obtainToken(t, srv, "donald", testPassword)

	newUser := map[string]any{
		"username":       "picsou",
		"email":          "picsou@localhost.fr",
		"password":       testPassword,
		"password_check": testPassword,
	}
	resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/register/", token, newUser)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d, body %s", resp.StatusCode, body)
	}
	if strings.Contains(string(body), "password") {
		t.Error("register response leaks the password field")
	}

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/register/", token, newUser)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("duplicate register status = %d, want 401", resp.StatusCode)
	}

	picsouToken := obtainToken(t, srv, "picsou", testPassword)
	resp, body = doJSON(t, srv, http.MethodGet, "/api/v1/users/me/", picsouToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var me struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decoding me response: %v", err)
	}
	if me.Username != "picsou" || me.Role != model.RoleUser {
		t.Errorf("me = %+v", me)
	}
}

func TestUsersList_AdminOnly(t *testing.T) {
	srv, _ := newTestServer(t)

	userToken := obtainToken(t, srv, "donald", testPassword)
	resp, _ := doJSON(t, srv, http.MethodGet, "/api/v1/users/", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("standard user status = %d, want 403", resp.StatusCode)
	}

	adminToken := obtainToken(t, srv, "admin", testPassword)
	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/users/", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d", resp.StatusCode)
	}
	var users []map[string]any
	if err := json.Unmarshal(body, &users); err != nil {
		t.Fatalf("decoding user list: %v", err)
	}
	if len(users) != 5 {
		t.Errorf("user count = %d, want 5", len(users))
	}
}

func TestDownload(t *testing.T) {
	srv, publisher := newTestServer(t)
	token := obtainToken(t, srv, "donald", testPassword)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/books/download/", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d, body %s", resp.StatusCode, body)
	}
	if detailOf(t, body) != "The books will be sent by email to donald@localhost.fr" {
		t.Errorf("download detail = %q", detailOf(t, body))
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("published messages = %d, want 1", len(publisher.messages))
	}
	var payload struct {
		RecipientEmail string `json:"recipient_email"`
	}
	if err := json.Unmarshal(publisher.messages[0].Payload, &payload); err != nil {
		t.Fatalf("decoding job payload: %v", err)
	}
	if payload.RecipientEmail != "donald@localhost.fr" {
		t.Errorf("job recipient = %q", payload.RecipientEmail)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
