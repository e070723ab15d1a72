package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/dto"
	"learnplay-commerce/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProcessPaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	orderID, err := h.paymentService.ProcessPayment(ctx, req.Items, req.UserID, req.TotalAmount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ProcessPaymentResponse{
		Success: true,
		OrderID: orderID,
	})
}
