package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/model"
	"learnplay-commerce/internal/repository"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"id":123,"status":"processing"}`)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, VerifyWebhookSignature("s3cret", body, sign("s3cret", body)))
	})

	t.Run("signature from a different secret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature("s3cret", body, sign("other", body)))
	})

	t.Run("body altered after signing", func(t *testing.T) {
		sig := sign("s3cret", body)
		tampered := []byte(`{"id":123,"status":"completed"}`)
		assert.False(t, VerifyWebhookSignature("s3cret", tampered, sig))
	})

	t.Run("missing header", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature("s3cret", body, ""))
	})

	t.Run("unconfigured secret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature("", body, sign("", body)))
	})
}

func TestHandleDeliveryRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	svc := NewWebhookService("s3cret", repository.NewWooOrderRepository(db))

	body := []byte(`{"id":123,"status":"processing"}`)
	_, err := svc.HandleDelivery(context.Background(), "order.updated", sign("wrong", body), body)

	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	// a rejected delivery must never reach the store
	var count int64
	require.NoError(t, db.Model(&model.WooOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleDeliveryIgnoresNonOrderTopics(t *testing.T) {
	db := newTestDB(t)
	svc := NewWebhookService("s3cret", repository.NewWooOrderRepository(db))

	body := []byte(`{"id":55}`)
	ignored, err := svc.HandleDelivery(context.Background(), "product.updated", sign("s3cret", body), body)

	require.NoError(t, err)
	assert.True(t, ignored)
}

func TestHandleDeliveryUpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewWebhookService("s3cret", repository.NewWooOrderRepository(db))
	ctx := context.Background()

	first := []byte(`{"id":123,"status":"pending","total":"19.99","currency":"USD","line_items":[]}`)
	_, err := svc.HandleDelivery(ctx, "order.created", sign("s3cret", first), first)
	require.NoError(t, err)

	second := []byte(`{"id":123,"status":"completed","total":"19.99","currency":"USD","line_items":[]}`)
	_, err = svc.HandleDelivery(ctx, "order.updated", sign("s3cret", second), second)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.WooOrder{}).Where("woo_order_id = ?", 123).Count(&count).Error)
	assert.EqualValues(t, 1, count, "redelivery must update in place, not insert")

	var order model.WooOrder
	require.NoError(t, db.Where("woo_order_id = ?", 123).First(&order).Error)
	assert.Equal(t, "completed", order.Status, "latest delivered state wins")
}

func TestHandleDeliveryMalformedLineItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewWebhookService("s3cret", repository.NewWooOrderRepository(db))

	// item missing sku and price, subtotal present
	body := []byte(`{"id":7,"status":"processing","total":"5.00","currency":"USD",` +
		`"line_items":[{"id":1,"product_id":42,"name":"Counting Stars","subtotal":"5.00"}]}`)
	_, err := svc.HandleDelivery(context.Background(), "order.updated", sign("s3cret", body), body)
	require.NoError(t, err)

	var order model.WooOrder
	require.NoError(t, db.Where("woo_order_id = ?", 7).First(&order).Error)
	require.Len(t, order.LineItems, 1)

	item := order.LineItems[0]
	assert.Nil(t, item.SKU)
	assert.Zero(t, item.Quantity)
	assert.Zero(t, item.Total)
	assert.InDelta(t, 5.00, item.Price, 0.001, "price falls back to subtotal")
}

func TestHandleDeliveryRecoversUserID(t *testing.T) {
	db := newTestDB(t)
	svc := NewWebhookService("s3cret", repository.NewWooOrderRepository(db))

	userID := "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55"
	body := []byte(fmt.Sprintf(
		`{"id":9,"status":"processing","total":"1.00","currency":"USD","line_items":[],`+
			`"meta_data":[{"key":"%s","value":"%s"}]}`, model.MetaKeyUserID, userID))

	_, err := svc.HandleDelivery(context.Background(), "order.updated", sign("s3cret", body), body)
	require.NoError(t, err)

	var order model.WooOrder
	require.NoError(t, db.Where("woo_order_id = ?", 9).First(&order).Error)
	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)
}

func TestExtractUserID(t *testing.T) {
	valid := "2f6cbd48-9c4e-4b38-9d1e-7a3f20c81a55"

	tests := []struct {
		name  string
		meta  []model.MetaEntry
		id    string
		match UserIDMatch
	}{
		{
			name:  "found",
			meta:  []model.MetaEntry{{Key: model.MetaKeyUserID, Value: valid}},
			id:    valid,
			match: UserIDFound,
		},
		{
			name:  "marker absent",
			meta:  []model.MetaEntry{{Key: "_billing_note", Value: "gift"}},
			match: UserIDNotFound,
		},
		{
			name:  "not a uuid",
			meta:  []model.MetaEntry{{Key: model.MetaKeyUserID, Value: "bob"}},
			match: UserIDInvalid,
		},
		{
			name:  "non-string value",
			meta:  []model.MetaEntry{{Key: model.MetaKeyUserID, Value: 42.0}},
			match: UserIDInvalid,
		},
		{
			name:  "empty metadata",
			meta:  nil,
			match: UserIDNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, match := ExtractUserID(tc.meta)
			assert.Equal(t, tc.match, match)
			assert.Equal(t, tc.id, id)
		})
	}
}
