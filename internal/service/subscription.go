package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/model"
	"learnplay-commerce/internal/repository"
)

type SubscriptionService interface {
	Create(ctx context.Context, userID, planID string) (*model.Subscription, error)
	Cancel(ctx context.Context, userID string) error
	UpdatePlan(ctx context.Context, userID, planID string) error
}

type subscriptionServiceImpl struct {
	subscriptionRepo repository.SubscriptionRepository
	now              func() time.Time
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionServiceImpl{
		subscriptionRepo: subscriptionRepo,
		now:              time.Now,
	}
}

// Create starts a new subscription running from now until now plus the
// plan's duration in calendar months. It does not supersede any existing
// active subscription for the user; a user can hold several at once and
// Cancel/UpdatePlan act on all of them.
func (s *subscriptionServiceImpl) Create(ctx context.Context, userID, planID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, apperr.Validation("user_id is required")
	}
	if planID == "" {
		return nil, apperr.Validation("plan_id is required")
	}

	plan, err := s.subscriptionRepo.FindPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("unknown plan: %s", planID)
		}
		return nil, apperr.Storage("look up plan", err)
	}

	start := s.now()
	sub := &model.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, plan.DurationMonths, 0),
		Status:    model.SubscriptionActive,
	}

	if err := s.subscriptionRepo.CreateSubscription(ctx, sub); err != nil {
		return nil, apperr.Storage("store subscription", err)
	}

	return sub, nil
}

func (s *subscriptionServiceImpl) Cancel(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Validation("user_id is required")
	}

	affected, err := s.subscriptionRepo.CancelActive(ctx, userID)
	if err != nil {
		return apperr.Storage("cancel subscriptions", err)
	}
	if affected == 0 {
		slog.Info("cancel requested with no active subscription", "user_id", userID)
	}

	return nil
}

// UpdatePlan swaps the plan on every active subscription. The end date is
// left as computed at creation time; switching plans does not extend or
// shorten the current term.
func (s *subscriptionServiceImpl) UpdatePlan(ctx context.Context, userID, planID string) error {
	if userID == "" {
		return apperr.Validation("user_id is required")
	}
	if planID == "" {
		return apperr.Validation("plan_id is required")
	}

	if _, err := s.subscriptionRepo.FindPlan(ctx, planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("unknown plan: %s", planID)
		}
		return apperr.Storage("look up plan", err)
	}

	if _, err := s.subscriptionRepo.UpdateActivePlan(ctx, userID, planID); err != nil {
		return apperr.Storage("update subscription plan", err)
	}

	return nil
}
