package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/service"
)

type ItemHandler struct {
	svc service.ItemService
}

func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type ItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  *uint64 `json:"category_id"`
	Address     string  `json:"address"`
	WebsiteURL  string  `json:"website_url"`
	PhoneNumber string  `json:"phone_number"`
	ImageURL    *string `json:"image_url"`
}

func (r ItemRequest) input() service.ItemInput {
	return service.ItemInput{
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Address:     r.Address,
		WebsiteURL:  r.WebsiteURL,
		PhoneNumber: r.PhoneNumber,
		ImageURL:    r.ImageURL,
	}
}

type ApprovalRequest struct {
	Approved *bool `json:"approved"`
}

func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusOK, toItemSummaries(items))
}

func (h *ItemHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	viewer, _ := UserID(c)
	detail, err := h.svc.Get(c.Request().Context(), viewer, id)
	if err != nil {
		return serviceError(c, err, "item")
	}
	resp := ItemDetailResponse{
		ItemSummaryResponse: toItemSummaryResponse(&detail.Summary),
		Images:              make([]ImageResponse, 0, len(detail.Images)),
		Reviews:             toReviewsWithAuthor(detail.Reviews),
	}
	for i := range detail.Images {
		resp.Images = append(resp.Images, toImageResponse(&detail.Images[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Create(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	item, err := h.svc.Create(c.Request().Context(), uid, req.input())
	if err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) Update(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	item, err := h.svc.Update(c.Request().Context(), uid, id, req.input())
	if err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Delete(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), uid, id); err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *ItemHandler) ListPending(c echo.Context) error {
	items, err := h.svc.ListPending(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusOK, toItemSummaries(items))
}

func (h *ItemHandler) SetApproval(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req ApprovalRequest
	if err := c.Bind(&req); err != nil || req.Approved == nil {
		return badRequest(c, "approved is required")
	}
	item, err := h.svc.SetApproval(c.Request().Context(), id, *req.Approved)
	if err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}
