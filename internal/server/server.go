package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/handler"
	"learnplay-commerce/internal/middleware"
	"learnplay-commerce/internal/service"
)

type Server struct {
	echo                *echo.Echo
	orderHandler        *handler.OrderHandler
	webhookHandler      *handler.WebhookHandler
	paymentHandler      *handler.PaymentHandler
	subscriptionHandler *handler.SubscriptionHandler
	notificationHandler *handler.NotificationHandler
	downloadHandler     *handler.DownloadHandler
}

func NewServer(
	jwtSecret string,
	orderService service.OrderService,
	webhookService service.WebhookService,
	paymentService service.PaymentService,
	subscriptionService service.SubscriptionService,
	notificationService service.NotificationService,
	downloadService service.DownloadService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorEnvelopeHandler

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Session(jwtSecret))

	s := &Server{
		echo:                e,
		orderHandler:        handler.NewOrderHandler(orderService),
		webhookHandler:      handler.NewWebhookHandler(webhookService),
		paymentHandler:      handler.NewPaymentHandler(paymentService),
		subscriptionHandler: handler.NewSubscriptionHandler(subscriptionService),
		notificationHandler: handler.NewNotificationHandler(notificationService),
		downloadHandler:     handler.NewDownloadHandler(downloadService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- storefront proxy --------
	api.POST("/orders", s.orderHandler.CreateOrder)
	api.POST("/orders/get", s.orderHandler.GetOrder)
	api.GET("/products", s.orderHandler.ListProducts)

	// -------- storefront webhooks --------
	api.POST("/webhooks/woocommerce", s.webhookHandler.ReceiveWoo)

	// -------- direct checkout / account --------
	api.POST("/payments", s.paymentHandler.ProcessPayment)
	api.POST("/subscriptions", s.subscriptionHandler.Manage)
	api.POST("/notifications", s.notificationHandler.Send)
	api.GET("/downloads/authorize", s.downloadHandler.Authorize)
}

// errorEnvelopeHandler renders every error as the uniform JSON envelope the
// clients expect. Nothing escapes as a bare 500 page.
func errorEnvelopeHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal error"

	var ae *apperr.Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ae):
		status = apperr.HTTPStatus(ae)
		message = ae.Message
	case errors.As(err, &he):
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if status >= 500 {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}

	if jsonErr := c.JSON(status, map[string]interface{}{
		"error":   message,
		"success": false,
	}); jsonErr != nil {
		slog.Error("write error response", "error", jsonErr)
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
