package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Profile(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	u, err := h.svc.Profile(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err, "user")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Reviews(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.Reviews(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err, "review")
	}
	resp := make([]ReviewResponse, 0, len(list))
	for i := range list {
		r := toReviewResponse(&list[i].Review)
		r.ItemName = list[i].ItemName
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Comments(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.Comments(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err, "comment")
	}
	resp := make([]CommentResponse, 0, len(list))
	for i := range list {
		r := toCommentResponse(&list[i].ReviewComment)
		r.ItemID = list[i].ItemID
		r.ItemName = list[i].ItemName
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}
