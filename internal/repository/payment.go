package repository

import (
	"context"

	"gorm.io/gorm"

	"learnplay-commerce/internal/model"
)

type PaymentRepository interface {
	CreateOrder(ctx context.Context, tx *gorm.DB, order *model.PaymentOrder) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.PaymentOrderItem) error
	GetOrderItems(ctx context.Context, orderID string) ([]*model.PaymentOrderItem, error)
	HasPurchasedProduct(ctx context.Context, userID string, productID int64) (bool, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) CreateOrder(ctx context.Context, tx *gorm.DB, order *model.PaymentOrder) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *paymentRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.PaymentOrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *paymentRepoImpl) GetOrderItems(ctx context.Context, orderID string) ([]*model.PaymentOrderItem, error) {
	var items []*model.PaymentOrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *paymentRepoImpl) HasPurchasedProduct(ctx context.Context, userID string, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PaymentOrderItem{}).
		Joins("JOIN payment_orders ON payment_orders.id = payment_order_items.order_id").
		Where("payment_orders.user_id = ?", userID).
		Where("payment_order_items.product_id = ?", productID).
		Count(&count).Error

	return count > 0, err
}
