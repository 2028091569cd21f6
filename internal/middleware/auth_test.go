package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/auth"
	"github.com/shinyyama/placereview/internal/handler"
	"github.com/shinyyama/placereview/internal/reqctx"
)

type fakeAdmins map[uint64]bool

func (f fakeAdmins) IsAdmin(_ context.Context, id uint64) (bool, error) {
	if id == 500 {
		return false, errors.New("db down")
	}
	return f[id], nil
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewIssuer("secret", time.Hour)
	m := NewAuthMiddleware(tokens, fakeAdmins{})
	valid, _ := tokens.Issue(7, "a@example.com")
	foreign, _ := auth.NewIssuer("other", time.Hour).Issue(7, "a@example.com")

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"no header", "", http.StatusUnauthorized, "unauthenticated"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "unauthenticated"},
		{"bad token", "Bearer junk", http.StatusUnauthorized, "invalid_session"},
		{"wrong key", "Bearer " + foreign, http.StatusUnauthorized, "invalid_session"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			h := m.RequireAuth(func(c echo.Context) error {
				uid, ok := handler.UserID(c)
				ctxUID, _ := reqctx.UserID(c.Request().Context())
				if !ok || uid != 7 || ctxUID != 7 {
					t.Fatalf("uid=%d ctx=%d ok=%v", uid, ctxUID, ok)
				}
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code=%d want %d", rec.Code, tt.wantCode)
			}
			if tt.wantErr != "" && errorCode(t, rec) != tt.wantErr {
				t.Fatalf("body=%s", rec.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewIssuer("secret", time.Hour)
	m := NewAuthMiddleware(tokens, fakeAdmins{})
	valid, _ := tokens.Issue(7, "a@example.com")

	tests := []struct {
		name    string
		header  string
		wantUID uint64
	}{
		{"no header", "", 0},
		{"bad token", "Bearer junk", 0},
		{"valid", "Bearer " + valid, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			var got uint64
			h := m.OptionalAuth(func(c echo.Context) error {
				got, _ = handler.UserID(c)
				return c.NoContent(http.StatusOK)
			})
			if err := h(e.NewContext(req, rec)); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != http.StatusOK || got != tt.wantUID {
				t.Fatalf("code=%d uid=%d want %d", rec.Code, got, tt.wantUID)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(auth.NewIssuer("secret", time.Hour), fakeAdmins{1: true})
	tests := []struct {
		name     string
		uid      uint64
		wantCode int
	}{
		{"admin", 1, http.StatusOK},
		{"regular user", 2, http.StatusForbidden},
		{"lookup failure", 500, http.StatusInternalServerError},
		{"anonymous", 0, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.uid != 0 {
				c.Set(handler.ContextUserID, tt.uid)
			}
			h := m.RequireAdmin(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
			if err := h(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code=%d want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
