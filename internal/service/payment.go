package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/dto"
	"learnplay-commerce/internal/model"
	"learnplay-commerce/internal/repository"
)

type PaymentService interface {
	ProcessPayment(ctx context.Context, items []dto.PaymentItem, userID string, totalAmount float64) (string, error)
}

type paymentServiceImpl struct {
	db                  *gorm.DB
	paymentRepo         repository.PaymentRepository
	notificationService NotificationService
}

func NewPaymentService(db *gorm.DB, paymentRepo repository.PaymentRepository, notificationService NotificationService) PaymentService {
	return &paymentServiceImpl{
		db:                  db,
		paymentRepo:         paymentRepo,
		notificationService: notificationService,
	}
}

// ProcessPayment records a direct-checkout purchase: one order row plus its
// items in a single transaction. A failed item insert rolls the order back;
// an order with zero items must never be visible to readers.
//
// Known simplification carried over from the original platform: the order is
// marked completed/captured immediately, without an independent gateway
// confirmation step.
func (s *paymentServiceImpl) ProcessPayment(ctx context.Context, items []dto.PaymentItem, userID string, totalAmount float64) (string, error) {
	if len(items) == 0 {
		return "", apperr.Validation("payment must contain at least one item")
	}
	if userID == "" {
		return "", apperr.Validation("user_id is required")
	}

	orderID := uuid.NewString()

	order := &model.PaymentOrder{
		ID:            orderID,
		UserID:        userID,
		Total:         decimal.NewFromFloat(totalAmount),
		Status:        model.OrderCompleted,
		PaymentStatus: model.PaymentCaptured,
	}

	orderItems := make([]*model.PaymentOrderItem, len(items))
	for i, item := range items {
		orderItems[i] = &model.PaymentOrderItem{
			OrderID:   orderID,
			ProductID: item.ID,
			Title:     item.Title,
			UnitPrice: decimal.NewFromFloat(item.Price),
			Quantity:  item.Quantity,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.CreateOrder(ctx, tx, order); err != nil {
			return apperr.Storage("store payment order", err)
		}
		if err := s.paymentRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return apperr.PartialWrite("store payment order items", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if s.notificationService != nil {
		result := s.notificationService.Notify(ctx, NotifyInput{
			Type:   NotifyPurchaseConfirmation,
			UserID: userID,
			Data: map[string]interface{}{
				"order_id": orderID,
				"total":    totalAmount,
			},
		})
		if result.Outcome == SendFailed {
			// Confirmation mail failure is observable but never fails the purchase.
			slog.Error("purchase confirmation mail failed", "order_id", orderID, "error", result.Err)
		}
	}

	return orderID, nil
}
