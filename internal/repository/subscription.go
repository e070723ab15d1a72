package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnplay-commerce/internal/model"
)

type SubscriptionRepository interface {
	SeedPlans(ctx context.Context) error
	FindPlan(ctx context.Context, planID string) (*model.Plan, error)

	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	CancelActive(ctx context.Context, userID string) (int64, error)
	UpdateActivePlan(ctx context.Context, userID, planID string) (int64, error)
	FindActiveByUserID(ctx context.Context, userID string) ([]*model.Subscription, error)
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) SeedPlans(ctx context.Context) error {
	plans := []model.Plan{
		{ID: "explorer_monthly", Name: "Explorer Monthly", DurationMonths: 1, Price: decimal.NewFromFloat(7.99), Currency: "USD"},
		{ID: "explorer_yearly", Name: "Explorer Yearly", DurationMonths: 12, Price: decimal.NewFromFloat(59.99), Currency: "USD"},
		{ID: "family_yearly", Name: "Family Yearly", DurationMonths: 12, Price: decimal.NewFromFloat(99.99), Currency: "USD"},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&plans).Error
}

func (r *subscriptionRepoImpl) FindPlan(ctx context.Context, planID string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("id = ?", planID).
		First(&plan).Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *subscriptionRepoImpl) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// CancelActive flips every active row for the user; zero rows affected is not
// an error.
func (r *subscriptionRepoImpl) CancelActive(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Updates(map[string]interface{}{
			"status":     model.SubscriptionCancelled,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *subscriptionRepoImpl) UpdateActivePlan(ctx context.Context, userID, planID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Updates(map[string]interface{}{
			"plan_id":    planID,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *subscriptionRepoImpl) FindActiveByUserID(ctx context.Context, userID string) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Find(&subs).Error

	if err != nil {
		return nil, err
	}

	return subs, nil
}
