package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"learnplay-commerce/internal/service"
)

type DownloadHandler struct {
	downloadService service.DownloadService
}

func NewDownloadHandler(downloadService service.DownloadService) *DownloadHandler {
	return &DownloadHandler{
		downloadService: downloadService,
	}
}

func (h *DownloadHandler) Authorize(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.downloadService.Authorize(ctx, c.QueryParam("fileId"), c.QueryParam("userId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
