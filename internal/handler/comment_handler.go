package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandler) ListByReview(c echo.Context) error {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	list, err := h.svc.ListByReview(c.Request().Context(), reviewID)
	if err != nil {
		return serviceError(c, err, "review")
	}
	resp := make([]CommentResponse, 0, len(list))
	for i := range list {
		r := toCommentResponse(&list[i].ReviewComment)
		r.Username = list[i].Username
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Create(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	reviewID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	cm, err := h.svc.Create(c.Request().Context(), uid, reviewID, req.Content)
	if err != nil {
		return serviceError(c, err, "review")
	}
	return c.JSON(http.StatusCreated, toCommentResponse(cm))
}

func (h *CommentHandler) Update(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	cm, err := h.svc.Update(c.Request().Context(), uid, id, req.Content)
	if err != nil {
		return serviceError(c, err, "comment")
	}
	return c.JSON(http.StatusOK, toCommentResponse(cm))
}

func (h *CommentHandler) Delete(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), uid, id); err != nil {
		return serviceError(c, err, "comment")
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
