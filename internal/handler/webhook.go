package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/service"
)

const (
	headerWebhookTopic     = "X-WC-Webhook-Topic"
	headerWebhookSignature = "X-WC-Webhook-Signature"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// ReceiveWoo accepts storefront deliveries. The body is passed to the service
// raw: the signature covers the exact bytes on the wire.
func (h *WebhookHandler) ReceiveWoo(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.Validation("unreadable request body")
	}

	ignored, err := h.webhookService.HandleDelivery(
		ctx,
		c.Request().Header.Get(headerWebhookTopic),
		c.Request().Header.Get(headerWebhookSignature),
		body,
	)
	if err != nil {
		return err
	}

	if ignored {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true, "ignored": true})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
