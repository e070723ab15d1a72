package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/dto"
	"learnplay-commerce/internal/middleware"
	"learnplay-commerce/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) Send(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.NotifyRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Type == "" {
		return apperr.Validation("type is required")
	}

	sessionEmail, _ := c.Get(middleware.ContextEmail).(string)

	result := h.notificationService.Notify(ctx, service.NotifyInput{
		Type:         req.Type,
		UserID:       req.UserID,
		SessionEmail: sessionEmail,
		Message:      req.Message,
		Title:        req.Title,
		Data:         req.Data,
	})

	if result.Outcome == service.SendFailed {
		if result.Err != nil {
			if _, ok := result.Err.(*apperr.Error); ok {
				return result.Err
			}
			return apperr.Validation("failed to send notification: %v", result.Err)
		}
		return apperr.Validation("failed to send notification")
	}

	// Skipped deliveries are deliberate; the caller still gets a success.
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
