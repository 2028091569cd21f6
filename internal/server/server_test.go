package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shinyyama/placereview/internal/config"
	"github.com/shinyyama/placereview/internal/db/dbtest"
	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testAPI struct {
	t   *testing.T
	db  *gorm.DB
	srv *Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gdb := dbtest.Open(t)
	store, err := storage.NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		GitSHA:     "abc123",
	}
	return &testAPI{t: t, db: gdb, srv: New(gdb, cfg, store)}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.srv.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) expect(rec *httptest.ResponseRecorder, code int, out interface{}) {
	a.t.Helper()
	if rec.Code != code {
		a.t.Fatalf("status=%d want %d body=%s", rec.Code, code, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			a.t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

// signup registers a user and returns a session token.
func (a *testAPI) signup(name string) (uint64, string) {
	a.t.Helper()
	var user struct {
		ID uint64 `json:"id"`
	}
	a.expect(a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": name, "email": name + "@example.com", "password": "password1", "full_name": name,
	}), http.StatusCreated, &user)
	var token string
	a.expect(a.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": name + "@example.com", "password": "password1",
	}), http.StatusOK, &token)
	return user.ID, token
}

type itemSummary struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	ImageURL      *string `json:"image_url"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

func TestReviewLifecycle(t *testing.T) {
	api := newTestAPI(t)
	_, tokA := api.signup("alice")
	_, tokB := api.signup("bobby")

	var item struct {
		ID uint64 `json:"id"`
	}
	api.expect(api.do(http.MethodPost, "/api/items", tokA, map[string]string{
		"name": "Burger Place", "description": "Best burgers in town",
	}), http.StatusCreated, &item)
	itemPath := fmt.Sprintf("/api/items/%d", item.ID)

	var rv struct {
		ID     uint64 `json:"id"`
		Rating int    `json:"rating"`
	}
	api.expect(api.do(http.MethodPost, itemPath+"/reviews", tokA, map[string]interface{}{"rating": 5, "title": "great"}), http.StatusCreated, &rv)
	api.expect(api.do(http.MethodPost, itemPath+"/reviews", tokA, map[string]interface{}{"rating": 2, "title": "worse"}), http.StatusOK, &rv)
	if rv.Rating != 2 {
		t.Fatalf("rating=%d", rv.Rating)
	}

	var list []itemSummary
	api.expect(api.do(http.MethodGet, "/api/items?search=burger", "", nil), http.StatusOK, &list)
	if len(list) != 1 || list[0].AverageRating != 2 || list[0].ReviewCount != 1 {
		t.Fatalf("list=%+v", list)
	}

	var detail struct {
		itemSummary
		CreatedByUsername string            `json:"created_by_username"`
		Reviews           []json.RawMessage `json:"reviews"`
		Images            []json.RawMessage `json:"images"`
	}
	api.expect(api.do(http.MethodGet, itemPath, "", nil), http.StatusOK, &detail)
	if detail.CreatedByUsername != "alice" || len(detail.Reviews) != 1 || detail.Images == nil {
		t.Fatalf("detail=%+v", detail)
	}

	reviewPath := fmt.Sprintf("/api/reviews/%d", rv.ID)
	var cm struct {
		ID uint64 `json:"id"`
	}
	api.expect(api.do(http.MethodPost, reviewPath+"/comments", tokB, map[string]string{"content": "agreed"}), http.StatusCreated, &cm)
	var comments []struct {
		Username string `json:"username"`
	}
	api.expect(api.do(http.MethodGet, reviewPath+"/comments", "", nil), http.StatusOK, &comments)
	if len(comments) != 1 || comments[0].Username != "bobby" {
		t.Fatalf("comments=%+v", comments)
	}

	// strangers are refused and the rows stay
	api.expect(api.do(http.MethodDelete, reviewPath, tokB, nil), http.StatusForbidden, nil)
	api.expect(api.do(http.MethodPut, fmt.Sprintf("/api/comments/%d", cm.ID), tokA, map[string]string{"content": "edited"}), http.StatusForbidden, nil)
	api.expect(api.do(http.MethodPut, itemPath, tokB, map[string]string{"name": "Mine"}), http.StatusForbidden, nil)
	var count int64
	api.db.Model(&model.Review{}).Count(&count)
	if count != 1 {
		t.Fatalf("reviews=%d", count)
	}

	api.expect(api.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", cm.ID), tokB, nil), http.StatusOK, nil)
	api.expect(api.do(http.MethodDelete, reviewPath, tokA, nil), http.StatusOK, nil)
	api.expect(api.do(http.MethodDelete, reviewPath, tokA, nil), http.StatusNotFound, nil)
	api.expect(api.do(http.MethodDelete, itemPath, tokA, nil), http.StatusOK, nil)
	api.expect(api.do(http.MethodGet, itemPath, "", nil), http.StatusNotFound, nil)
}

func TestAuthErrors(t *testing.T) {
	api := newTestAPI(t)
	api.signup("alice")

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"duplicate email", http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alice2", "email": "alice@example.com", "password": "password1", "full_name": "A",
		}, http.StatusBadRequest, "user_exists"},
		{"short username", http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "al", "email": "al@example.com", "password": "password1", "full_name": "A",
		}, http.StatusBadRequest, "bad_request"},
		{"wrong password", http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong-one",
		}, http.StatusUnauthorized, "invalid_credentials"},
		{"unknown email", http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "password1",
		}, http.StatusUnauthorized, "invalid_credentials"},
		{"missing token", http.MethodGet, "/api/users/profile", "", nil, http.StatusUnauthorized, "unauthenticated"},
		{"bad token", http.MethodGet, "/api/users/profile", "garbage", nil, http.StatusUnauthorized, "invalid_session"},
	}
	bodies := map[string]string{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.token, tt.body)
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			api.expect(rec, tt.wantCode, &body)
			if body.Error.Code != tt.wantErr {
				t.Fatalf("code=%s want %s", body.Error.Code, tt.wantErr)
			}
			bodies[tt.name] = rec.Body.String()
		})
	}
	if bodies["wrong password"] != bodies["unknown email"] {
		t.Fatalf("login failures differ: %s vs %s", bodies["wrong password"], bodies["unknown email"])
	}
}

func TestProfileAndAdmin(t *testing.T) {
	api := newTestAPI(t)
	adminID, tokAdmin := api.signup("admin")
	_, tokA := api.signup("alice")
	_, tokB := api.signup("bobby")
	if err := api.db.Model(&model.User{}).Where("id = ?", adminID).Update("is_admin", true).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}

	var profile struct {
		Username string `json:"username"`
		IsAdmin  bool   `json:"is_admin"`
	}
	api.expect(api.do(http.MethodGet, "/api/users/profile", tokAdmin, nil), http.StatusOK, &profile)
	if profile.Username != "admin" || !profile.IsAdmin {
		t.Fatalf("profile=%+v", profile)
	}
	if strings.Contains(api.do(http.MethodGet, "/api/users/profile", tokA, nil).Body.String(), "password") {
		t.Fatal("profile leaks password")
	}

	var item struct {
		ID uint64 `json:"id"`
	}
	api.expect(api.do(http.MethodPost, "/api/items", tokA, map[string]string{"name": "Pizza Joint"}), http.StatusCreated, &item)
	approval := fmt.Sprintf("/api/admin/items/%d/approval", item.ID)

	api.expect(api.do(http.MethodPut, approval, tokA, map[string]bool{"approved": false}), http.StatusForbidden, nil)
	api.expect(api.do(http.MethodPut, approval, tokAdmin, map[string]bool{"approved": false}), http.StatusOK, nil)

	var list []itemSummary
	api.expect(api.do(http.MethodGet, "/api/items", "", nil), http.StatusOK, &list)
	if len(list) != 0 {
		t.Fatalf("unapproved item listed: %+v", list)
	}
	api.expect(api.do(http.MethodGet, "/api/admin/items/pending", tokAdmin, nil), http.StatusOK, &list)
	if len(list) != 1 || list[0].ID != item.ID {
		t.Fatalf("pending=%+v", list)
	}

	detail := fmt.Sprintf("/api/items/%d", item.ID)
	hidden := []struct {
		name     string
		method   string
		path     string
		token    string
		body     interface{}
		wantCode int
	}{
		{"anonymous detail", http.MethodGet, detail, "", nil, http.StatusNotFound},
		{"anonymous reviews", http.MethodGet, detail + "/reviews", "", nil, http.StatusNotFound},
		{"stranger detail", http.MethodGet, detail, tokB, nil, http.StatusNotFound},
		{"stranger review", http.MethodPost, detail + "/reviews", tokB, map[string]int{"rating": 1}, http.StatusNotFound},
		{"creator detail", http.MethodGet, detail, tokA, nil, http.StatusOK},
		{"admin detail", http.MethodGet, detail, tokAdmin, nil, http.StatusOK},
		{"garbage token is anonymous", http.MethodGet, detail, "junk", nil, http.StatusNotFound},
	}
	for _, tt := range hidden {
		if rec := api.do(tt.method, tt.path, tt.token, tt.body); rec.Code != tt.wantCode {
			t.Fatalf("%s: status=%d want %d body=%s", tt.name, rec.Code, tt.wantCode, rec.Body.String())
		}
	}

	var reviews []struct {
		ItemName string `json:"item_name"`
	}
	api.expect(api.do(http.MethodPost, fmt.Sprintf("/api/items/%d/reviews", item.ID), tokA, map[string]int{"rating": 4}), http.StatusCreated, nil)
	api.expect(api.do(http.MethodGet, "/api/users/reviews", tokA, nil), http.StatusOK, &reviews)
	if len(reviews) != 1 || reviews[0].ItemName != "Pizza Joint" {
		t.Fatalf("reviews=%+v", reviews)
	}
	api.expect(api.do(http.MethodGet, "/api/users/comments", tokA, nil), http.StatusOK, nil)
}

func TestImageUploadServed(t *testing.T) {
	api := newTestAPI(t)
	_, tok := api.signup("alice")
	var item struct {
		ID uint64 `json:"id"`
	}
	api.expect(api.do(http.MethodPost, "/api/items", tok, map[string]string{"name": "Cafe"}), http.StatusCreated, &item)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "photo.png")
	fw.Write(png)
	mw.WriteField("primary", "true")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/items/%d/images", item.ID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	api.srv.ServeHTTP(rec, req)

	var img struct {
		ImageURL  string `json:"image_url"`
		IsPrimary bool   `json:"is_primary"`
	}
	api.expect(rec, http.StatusCreated, &img)
	if !img.IsPrimary || !strings.HasPrefix(img.ImageURL, storage.URLPrefix+"/items/") {
		t.Fatalf("image=%+v", img)
	}

	served := api.do(http.MethodGet, img.ImageURL, "", nil)
	if served.Code != http.StatusOK || !bytes.Equal(served.Body.Bytes(), png) {
		t.Fatalf("static status=%d", served.Code)
	}

	var list []itemSummary
	api.expect(api.do(http.MethodGet, "/api/items", "", nil), http.StatusOK, &list)
	if len(list) != 1 || list[0].ImageURL == nil || *list[0].ImageURL != img.ImageURL {
		t.Fatalf("list=%+v", list)
	}
}

func TestHealthzAndCategories(t *testing.T) {
	api := newTestAPI(t)
	api.db.Create(&model.Category{Name: "Restaurants", Description: "Places to eat"})
	api.db.Create(&model.Category{Name: "Books", Description: "Reading"})

	var health map[string]string
	api.expect(api.do(http.MethodGet, "/healthz", "", nil), http.StatusOK, &health)
	if health["ok"] != "true" || health["git_sha"] != "abc123" {
		t.Fatalf("health=%v", health)
	}

	var cats []struct {
		Name string `json:"name"`
	}
	api.expect(api.do(http.MethodGet, "/api/categories", "", nil), http.StatusOK, &cats)
	if len(cats) != 2 || cats[0].Name != "Books" {
		t.Fatalf("categories=%+v", cats)
	}
}

func TestAllowOrigin(t *testing.T) {
	allow := allowOrigin([]string{"https://reviews.example.com/"})
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:5173", true},
		{"https://127.0.0.1:3000", true},
		{"https://reviews.example.com", true},
		{"https://evil.example.com", false},
		{"ftp://reviews.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			got, _ := allow(tt.origin)
			if got != tt.want {
				t.Fatalf("got=%v want %v", got, tt.want)
			}
		})
	}
}
