package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnplay-commerce/internal/model"
)

type WooOrderRepository interface {
	Upsert(ctx context.Context, order *model.WooOrder) error
	FindByWooOrderID(ctx context.Context, wooOrderID int64) (*model.WooOrder, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.WooOrder, error)
}

type wooOrderRepoImpl struct {
	db *gorm.DB
}

func NewWooOrderRepository(db *gorm.DB) WooOrderRepository {
	return &wooOrderRepoImpl{
		db: db,
	}
}

// Upsert applies the latest delivered state for the order unconditionally.
// The unique index on woo_order_id makes concurrent redeliveries collapse
// into an update instead of a duplicate row.
func (r *wooOrderRepoImpl) Upsert(ctx context.Context, order *model.WooOrder) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "woo_order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "total", "currency", "line_items", "meta_data",
			"user_id", "woo_customer_id", "updated_at",
		}),
	}).Create(order).Error
}

func (r *wooOrderRepoImpl) FindByWooOrderID(ctx context.Context, wooOrderID int64) (*model.WooOrder, error) {
	var order model.WooOrder
	err := r.db.WithContext(ctx).
		Where("woo_order_id = ?", wooOrderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *wooOrderRepoImpl) FindByUserID(ctx context.Context, userID string) ([]*model.WooOrder, error) {
	var orders []*model.WooOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
