package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/auth"
	"github.com/shinyyama/placereview/internal/handler"
	"github.com/shinyyama/placereview/internal/reqctx"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uint64) (bool, error)
}

type AuthMiddleware struct {
	tokens *auth.Issuer
	admins AdminChecker
}

func NewAuthMiddleware(tokens *auth.Issuer, admins AdminChecker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, admins: admins}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated", "please login to continue"))
		}
		if !m.identify(c, authz) {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid_session", "session is invalid or expired"))
		}
		return next(c)
	}
}

// OptionalAuth identifies the caller when a valid bearer token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if authz := c.Request().Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
			m.identify(c, authz)
		}
		return next(c)
	}
}

func (m *AuthMiddleware) identify(c echo.Context, authz string) bool {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	claims, err := m.tokens.Verify(tokenStr)
	if err != nil {
		return false
	}
	c.Set(handler.ContextUserID, claims.UserID)
	c.Set(handler.ContextEmail, claims.Email)
	req := c.Request()
	c.SetRequest(req.WithContext(reqctx.WithUserID(req.Context(), claims.UserID)))
	return true
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := handler.UserID(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthenticated", "please login to continue"))
		}
		ctx := c.Request().Context()
		isAdmin, err := m.admins.IsAdmin(ctx, uid)
		if err != nil {
			log.Printf("[auth] rid=%s admin lookup failed user=%d: %v", reqctx.RID(ctx), uid, err)
			return c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal_error", "internal server error"))
		}
		if !isAdmin {
			return c.JSON(http.StatusForbidden, handler.NewErrorResponse("forbidden", "admin access required"))
		}
		return next(c)
	}
}
