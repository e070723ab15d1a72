package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/model"
	"learnplay-commerce/internal/repository"
)

type WebhookService interface {
	// HandleDelivery verifies and applies one webhook delivery. The returned
	// bool is true when the topic is not an order topic and the body was
	// deliberately ignored.
	HandleDelivery(ctx context.Context, topic, signature string, body []byte) (bool, error)
}

type webhookServiceImpl struct {
	secret       string
	wooOrderRepo repository.WooOrderRepository
}

func NewWebhookService(secret string, wooOrderRepo repository.WooOrderRepository) WebhookService {
	return &webhookServiceImpl{
		secret:       secret,
		wooOrderRepo: wooOrderRepo,
	}
}

// VerifyWebhookSignature checks the HMAC-SHA256 the storefront computes over
// the raw request body. It must run before any parsing; a decoded-then-
// re-encoded body would no longer match the signed bytes.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// rawLineItem tolerates missing fields; a malformed item must never fail the
// whole delivery.
type rawLineItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	Quantity  *int     `json:"quantity"`
	Total     *string  `json:"total"`
	Price     *float64 `json:"price"`
	Subtotal  *string  `json:"subtotal"`
	SKU       *string  `json:"sku"`
}

type wooWebhookOrder struct {
	ID         int64             `json:"id"`
	Status     string            `json:"status"`
	Total      string            `json:"total"`
	Currency   string            `json:"currency"`
	CustomerID *int64            `json:"customer_id"`
	LineItems  []rawLineItem     `json:"line_items"`
	MetaData   []model.MetaEntry `json:"meta_data"`
}

func (s *webhookServiceImpl) HandleDelivery(ctx context.Context, topic, signature string, body []byte) (bool, error) {
	if !VerifyWebhookSignature(s.secret, body, signature) {
		return false, apperr.Auth("webhook signature mismatch")
	}

	if !strings.HasPrefix(topic, "order.") {
		return true, nil
	}

	var payload wooWebhookOrder
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, apperr.Validation("malformed webhook payload: %v", err)
	}
	if payload.ID == 0 {
		return false, apperr.Validation("webhook payload missing order id")
	}

	order := &model.WooOrder{
		WooOrderID:    payload.ID,
		Status:        payload.Status,
		Total:         payload.Total,
		Currency:      payload.Currency,
		LineItems:     normalizeLineItems(payload.LineItems),
		MetaData:      model.MetaData(payload.MetaData),
		WooCustomerID: payload.CustomerID,
	}

	userID, match := ExtractUserID(payload.MetaData)
	if match == UserIDFound {
		order.UserID = &userID
	} else if match == UserIDInvalid {
		slog.Warn("webhook meta_data carries malformed user id, storing order without one",
			"woo_order_id", payload.ID)
	}

	if err := s.wooOrderRepo.Upsert(ctx, order); err != nil {
		return false, apperr.Storage("upsert order mirror", err)
	}

	return false, nil
}

// normalizeLineItems maps raw storefront items onto the mirror shape,
// defaulting anything missing. Price falls back to the parsed subtotal.
func normalizeLineItems(raw []rawLineItem) model.LineItems {
	items := make(model.LineItems, len(raw))
	for i, r := range raw {
		item := model.LineItem{
			ID:        r.ID,
			ProductID: r.ProductID,
			Name:      r.Name,
			SKU:       r.SKU,
		}
		if r.Quantity != nil {
			item.Quantity = *r.Quantity
		}
		if r.Total != nil {
			item.Total = parseDecimalString(*r.Total)
		}
		switch {
		case r.Price != nil:
			item.Price = *r.Price
		case r.Subtotal != nil:
			item.Price = parseDecimalString(*r.Subtotal)
		}
		items[i] = item
	}
	return items
}

func parseDecimalString(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// UserIDMatch is the outcome of scanning storefront metadata for the
// application user id.
type UserIDMatch int

const (
	UserIDNotFound UserIDMatch = iota
	UserIDFound
	UserIDInvalid
)

// ExtractUserID scans the metadata sequence for the fixed marker key and
// validates the value as a UUID. An invalid value is reported, not fatal.
func ExtractUserID(meta []model.MetaEntry) (string, UserIDMatch) {
	for _, entry := range meta {
		if entry.Key != model.MetaKeyUserID {
			continue
		}
		value, ok := entry.Value.(string)
		if !ok {
			return "", UserIDInvalid
		}
		if len(value) != 36 {
			return "", UserIDInvalid
		}
		if _, err := uuid.Parse(value); err != nil {
			return "", UserIDInvalid
		}
		return value, UserIDFound
	}
	return "", UserIDNotFound
}
