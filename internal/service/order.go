package service

import (
	"context"
	"log/slog"

	"learnplay-commerce/internal/client"
	"learnplay-commerce/internal/dto"
)

// OrderService fronts the storefront proxy. It owns no state; orders created
// here are completed on the storefront's own checkout page and come back to
// us later through webhooks.
type OrderService interface {
	CreateOrder(ctx context.Context, items []dto.OrderItem, userID string) (*dto.CreateOrderResponse, error)
	GetOrder(ctx context.Context, orderID int64) (*dto.GetOrderResponse, error)
	ListProducts(ctx context.Context, search string, page, perPage int) ([]dto.Product, error)
}

type orderServiceImpl struct {
	wooClient client.WooClient
}

func NewOrderService(wooClient client.WooClient) OrderService {
	return &orderServiceImpl{
		wooClient: wooClient,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, items []dto.OrderItem, userID string) (*dto.CreateOrderResponse, error) {
	resp, err := s.wooClient.CreateOrder(ctx, items, userID)
	if err != nil {
		return nil, err
	}

	slog.Info("storefront order created", "woo_order_id", resp.OrderID, "user_id", userID)
	return resp, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID int64) (*dto.GetOrderResponse, error) {
	return s.wooClient.GetOrder(ctx, orderID)
}

func (s *orderServiceImpl) ListProducts(ctx context.Context, search string, page, perPage int) ([]dto.Product, error) {
	return s.wooClient.ListProducts(ctx, search, page, perPage)
}
