package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/dto"
	"learnplay-commerce/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, err := h.orderService.CreateOrder(ctx, req.Items, req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.GetOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.OrderID == 0 {
		return apperr.Validation("order_id is required")
	}

	resp, err := h.orderService.GetOrder(ctx, req.OrderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	products, err := h.orderService.ListProducts(ctx, c.QueryParam("search"), page, perPage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}
