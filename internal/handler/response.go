package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/reqctx"
	"github.com/shinyyama/placereview/internal/service"
)

// Keys the auth middleware stores the verified identity under.
const (
	ContextUserID = "uid"
	ContextEmail  = "email"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func UserID(c echo.Context) (uint64, bool) {
	uid, ok := c.Get(ContextUserID).(uint64)
	return uid, ok && uid != 0
}

func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", msg))
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthenticated", "please login to continue"))
}

// serviceError writes the response for a service failure. Only validation
// messages reach the client; anything unexpected is logged and reported
// generically.
func serviceError(c echo.Context, err error, resource string) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return badRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", resource+" not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed to modify this "+resource))
	case errors.Is(err, service.ErrUserExists):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("user_exists", "user already exists"))
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("invalid_credentials", "invalid credentials"))
	case errors.Is(err, service.ErrAccountInactive):
		return c.JSON(http.StatusForbidden, NewErrorResponse("account_inactive", "account is inactive"))
	}
	log.Printf("[http] rid=%s %s %s failed: %v", reqctx.RID(c.Request().Context()), c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "internal server error"))
}
