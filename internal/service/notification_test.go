package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnplay-commerce/internal/model"
	"learnplay-commerce/internal/repository"
)

type fakeMailClient struct {
	sent    []string
	sendErr error
}

func (f *fakeMailClient) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to)
	return nil
}

func newNotificationService(t *testing.T, mail *fakeMailClient) NotificationService {
	t.Helper()

	db := newTestDB(t)
	require.NoError(t, db.Create(&model.User{
		ID:    "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55",
		Email: "parent@example.com",
	}).Error)

	return NewNotificationService(mail, repository.NewUserRepository(db))
}

func TestNotifySendsToDirectoryEmail(t *testing.T) {
	mail := &fakeMailClient{}
	svc := newNotificationService(t, mail)

	result := svc.Notify(context.Background(), NotifyInput{
		Type:   NotifyWelcome,
		UserID: "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55",
	})

	assert.Equal(t, SendSent, result.Outcome)
	assert.Equal(t, []string{"parent@example.com"}, mail.sent)
}

func TestNotifyUnrecognizedTypeIsDropped(t *testing.T) {
	mail := &fakeMailClient{}
	svc := newNotificationService(t, mail)

	result := svc.Notify(context.Background(), NotifyInput{
		Type:   "confetti_cannon",
		UserID: "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55",
	})

	assert.Equal(t, SendSkipped, result.Outcome)
	assert.Equal(t, "unrecognized type", result.Reason)
	assert.Empty(t, mail.sent, "unrecognized types never reach the provider")
}

func TestNotifyLogOnlyTypesSkipMail(t *testing.T) {
	mail := &fakeMailClient{}
	svc := newNotificationService(t, mail)

	for _, typ := range []string{NotifyAchievement, NotifyProgressUpdate} {
		result := svc.Notify(context.Background(), NotifyInput{
			Type:   typ,
			UserID: "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55",
		})
		assert.Equal(t, SendSkipped, result.Outcome, typ)
	}
	assert.Empty(t, mail.sent)
}

func TestNotifyNoResolvableAddressIsSkipped(t *testing.T) {
	mail := &fakeMailClient{}
	svc := newNotificationService(t, mail)

	result := svc.Notify(context.Background(), NotifyInput{
		Type:   NotifyWelcome,
		UserID: "00000000-0000-0000-0000-000000000000",
	})

	assert.Equal(t, SendSkipped, result.Outcome)
	assert.Empty(t, mail.sent)
}

func TestNotifySessionEmailFallback(t *testing.T) {
	mail := &fakeMailClient{}
	svc := newNotificationService(t, mail)

	result := svc.Notify(context.Background(), NotifyInput{
		Type:         NotifySubscriptionReminder,
		SessionEmail: "session@example.com",
	})

	assert.Equal(t, SendSent, result.Outcome)
	assert.Equal(t, []string{"session@example.com"}, mail.sent)
}

func TestNotifyPurchaseConfirmationRequiresOrderData(t *testing.T) {
	mail := &fakeMailClient{}
	svc := newNotificationService(t, mail)

	result := svc.Notify(context.Background(), NotifyInput{
		Type:   NotifyPurchaseConfirmation,
		UserID: "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55",
		Data:   map[string]interface{}{"order_id": "abc"},
	})

	assert.Equal(t, SendFailed, result.Outcome)
	assert.Empty(t, mail.sent)
}

func TestNotifyProviderFailureIsSurfaced(t *testing.T) {
	mail := &fakeMailClient{sendErr: errors.New("rate limited")}
	svc := newNotificationService(t, mail)

	result := svc.Notify(context.Background(), NotifyInput{
		Type:   NotifyWelcome,
		UserID: "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55",
	})

	assert.Equal(t, SendFailed, result.Outcome)
	assert.ErrorContains(t, result.Err, "rate limited")
}
