package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *ReviewHandler) ListByItem(c echo.Context) error {
	itemID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	viewer, _ := UserID(c)
	reviews, err := h.svc.ListByItem(c.Request().Context(), viewer, itemID)
	if err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusOK, toReviewsWithAuthor(reviews))
}

// Submit answers 201 when the review was inserted and 200 when an earlier
// review by the same user was overwritten.
func (h *ReviewHandler) Submit(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	rv, created, err := h.svc.Submit(c.Request().Context(), uid, itemID, service.ReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return serviceError(c, err, "item")
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toReviewResponse(rv))
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), uid, id); err != nil {
		return serviceError(c, err, "review")
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
