package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/placereview/internal/service"
)

// MaxImageBytes caps a single uploaded image.
const MaxImageBytes = 5 << 20

type ImageHandler struct {
	svc service.ImageService
}

func NewImageHandler(svc service.ImageService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

func (h *ImageHandler) Upload(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}
	if fh.Size > MaxImageBytes {
		return badRequest(c, "image is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "cannot read image")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return badRequest(c, "cannot read image")
	}
	if len(data) > MaxImageBytes {
		return badRequest(c, "image is too large")
	}
	primary, _ := strconv.ParseBool(c.FormValue("primary"))

	img, err := h.svc.Upload(c.Request().Context(), uid, itemID, data, primary)
	if err != nil {
		return serviceError(c, err, "item")
	}
	return c.JSON(http.StatusCreated, toImageResponse(img))
}

func (h *ImageHandler) SetPrimary(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	itemID, ok := parseID(c, "id")
	imageID, ok2 := parseID(c, "imageId")
	if !ok || !ok2 {
		return badRequest(c, "invalid id")
	}
	img, err := h.svc.SetPrimary(c.Request().Context(), uid, itemID, imageID)
	if err != nil {
		return serviceError(c, err, "image")
	}
	return c.JSON(http.StatusOK, toImageResponse(img))
}

func (h *ImageHandler) Delete(c echo.Context) error {
	uid, ok := UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	itemID, ok := parseID(c, "id")
	imageID, ok2 := parseID(c, "imageId")
	if !ok || !ok2 {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), uid, itemID, imageID); err != nil {
		return serviceError(c, err, "image")
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
