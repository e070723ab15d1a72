package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/model"
	"learnplay-commerce/internal/repository"
)

func newSubscriptionService(t *testing.T) (*subscriptionServiceImpl, func(time.Time)) {
	t.Helper()

	db := newTestDB(t)
	repo := repository.NewSubscriptionRepository(db)
	require.NoError(t, db.Create(&model.Plan{
		ID: "explorer_yearly", Name: "Explorer Yearly", DurationMonths: 12,
		Price: decimal.NewFromFloat(59.99), Currency: "USD",
	}).Error)
	require.NoError(t, db.Create(&model.Plan{
		ID: "explorer_monthly", Name: "Explorer Monthly", DurationMonths: 1,
		Price: decimal.NewFromFloat(7.99), Currency: "USD",
	}).Error)

	svc := &subscriptionServiceImpl{
		subscriptionRepo: repo,
		now:              time.Now,
	}
	setNow := func(ts time.Time) {
		svc.now = func() time.Time { return ts }
	}
	return svc, setNow
}

func TestCreateSubscriptionCalendarMonthArithmetic(t *testing.T) {
	svc, setNow := newSubscriptionService(t)
	setNow(time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC))

	sub, err := svc.Create(context.Background(), "user-1", "explorer_yearly")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC), sub.EndDate)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
}

func TestCreateSubscriptionUnknownPlan(t *testing.T) {
	svc, _ := newSubscriptionService(t)

	_, err := svc.Create(context.Background(), "user-1", "galactic_tier")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCancelSubscription(t *testing.T) {
	svc, _ := newSubscriptionService(t)
	ctx := context.Background()

	t.Run("no active rows is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Cancel(ctx, "user-none"))
	})

	t.Run("cancels every active row", func(t *testing.T) {
		_, err := svc.Create(ctx, "user-2", "explorer_yearly")
		require.NoError(t, err)
		_, err = svc.Create(ctx, "user-2", "explorer_monthly")
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, "user-2"))

		active, err := svc.subscriptionRepo.FindActiveByUserID(ctx, "user-2")
		require.NoError(t, err)
		assert.Empty(t, active)
	})
}

func TestUpdatePlanKeepsEndDate(t *testing.T) {
	svc, setNow := newSubscriptionService(t)
	ctx := context.Background()
	setNow(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	created, err := svc.Create(ctx, "user-3", "explorer_yearly")
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePlan(ctx, "user-3", "explorer_monthly"))

	active, err := svc.subscriptionRepo.FindActiveByUserID(ctx, "user-3")
	require.NoError(t, err)
	require.Len(t, active, 1)

	assert.Equal(t, "explorer_monthly", active[0].PlanID)
	assert.True(t, active[0].EndDate.Equal(created.EndDate), "plan switch must not recompute the term")
}

func TestUpdatePlanUnknownPlan(t *testing.T) {
	svc, _ := newSubscriptionService(t)

	err := svc.UpdatePlan(context.Background(), "user-4", "galactic_tier")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
