package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/client"
	"learnplay-commerce/internal/repository"
)

// Notification types. Anything outside this set is logged and dropped.
const (
	NotifyWelcome              = "welcome"
	NotifyAchievement          = "achievement"
	NotifyPurchaseConfirmation = "purchase_confirmation"
	NotifySubscriptionReminder = "subscription_reminder"
	NotifyProgressUpdate       = "progress_update"
)

type SendOutcome int

const (
	SendSkipped SendOutcome = iota
	SendSent
	SendFailed
)

// SendResult tells the caller what actually happened to the message, so the
// enclosing operation can decide whether a failed send matters to it.
type SendResult struct {
	Outcome SendOutcome
	Reason  string
	Err     error
}

type NotifyInput struct {
	Type         string
	UserID       string
	SessionEmail string
	Message      string
	Title        string
	Data         map[string]interface{}
}

type NotificationService interface {
	Notify(ctx context.Context, input NotifyInput) SendResult
}

type notificationServiceImpl struct {
	mailClient client.MailClient
	userRepo   repository.UserRepository
}

func NewNotificationService(mailClient client.MailClient, userRepo repository.UserRepository) NotificationService {
	return &notificationServiceImpl{
		mailClient: mailClient,
		userRepo:   userRepo,
	}
}

func (s *notificationServiceImpl) Notify(ctx context.Context, input NotifyInput) SendResult {
	subject, body, result := s.buildMessage(input)
	if result != nil {
		return *result
	}

	email, reason := s.resolveEmail(ctx, input)
	if email == "" {
		slog.Info("notification skipped", "type", input.Type, "reason", reason)
		return SendResult{Outcome: SendSkipped, Reason: reason}
	}

	if err := s.mailClient.Send(ctx, email, subject, body); err != nil {
		return SendResult{Outcome: SendFailed, Reason: "provider error", Err: err}
	}

	slog.Info("notification sent", "type", input.Type, "user_id", input.UserID)
	return SendResult{Outcome: SendSent}
}

// buildMessage selects the template for the type. A non-nil result short-
// circuits the dispatch: log-only and unrecognized types never reach the
// provider.
func (s *notificationServiceImpl) buildMessage(input NotifyInput) (string, string, *SendResult) {
	switch input.Type {
	case NotifyWelcome:
		return "Welcome to LearnPlay!",
			"<h1>Welcome aboard!</h1><p>Your learning adventure starts now.</p>",
			nil

	case NotifyPurchaseConfirmation:
		orderID, okID := input.Data["order_id"].(string)
		total, okTotal := toFloat(input.Data["total"])
		if !okID || !okTotal {
			return "", "", &SendResult{
				Outcome: SendFailed,
				Reason:  "missing order data",
				Err:     apperr.Validation("purchase_confirmation requires data.order_id and data.total"),
			}
		}
		return "Thanks for your purchase!",
			fmt.Sprintf("<h1>Order confirmed</h1><p>Order %s, total $%.2f.</p>", orderID, total),
			nil

	case NotifySubscriptionReminder:
		message := input.Message
		if message == "" {
			message = "Your subscription renews soon."
		}
		return "Your LearnPlay subscription", fmt.Sprintf("<p>%s</p>", message), nil

	case NotifyAchievement, NotifyProgressUpdate:
		slog.Info("activity notification recorded", "type", input.Type,
			"user_id", input.UserID, "title", input.Title, "message", input.Message)
		return "", "", &SendResult{Outcome: SendSkipped, Reason: "log-only type"}

	default:
		slog.Warn("unrecognized notification type dropped", "type", input.Type)
		return "", "", &SendResult{Outcome: SendSkipped, Reason: "unrecognized type"}
	}
}

func (s *notificationServiceImpl) resolveEmail(ctx context.Context, input NotifyInput) (string, string) {
	if input.UserID != "" {
		user, err := s.userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "user has no directory entry"
			}
			return "", "user directory lookup failed"
		}
		if user.Email != "" {
			return user.Email, ""
		}
		return "", "user has no email address"
	}

	if input.SessionEmail != "" {
		return input.SessionEmail, ""
	}

	return "", "no destination email"
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
