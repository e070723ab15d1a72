package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/model"
	"learnplay-commerce/internal/repository"
	"learnplay-commerce/internal/service"
)

const webhookSecret = "s3cret"

func newWebhookHandler(t *testing.T) (*WebhookHandler, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.WooOrder{}))

	svc := service.NewWebhookService(webhookSecret, repository.NewWooOrderRepository(db))
	return NewWebhookHandler(svc), db
}

func deliver(t *testing.T, h *WebhookHandler, topic string, body []byte, secret string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/woocommerce", bytes.NewReader(body))
	req.Header.Set("X-WC-Webhook-Topic", topic)
	req.Header.Set("X-WC-Webhook-Signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	rec := httptest.NewRecorder()

	return rec, h.ReceiveWoo(e.NewContext(req, rec))
}

func TestReceiveWooStoresOrder(t *testing.T) {
	h, db := newWebhookHandler(t)

	body := []byte(`{"id":321,"status":"processing","total":"9.99","currency":"USD","line_items":[]}`)
	rec, err := deliver(t, h, "order.updated", body, webhookSecret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["ok"])

	var count int64
	require.NoError(t, db.Model(&model.WooOrder{}).Where("woo_order_id = ?", 321).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReceiveWooIgnoresOtherTopics(t *testing.T) {
	h, _ := newWebhookHandler(t)

	rec, err := deliver(t, h, "customer.updated", []byte(`{"id":1}`), webhookSecret)
	require.NoError(t, err)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["ok"])
	assert.True(t, resp["ignored"])
}

func TestReceiveWooRejectsBadSignature(t *testing.T) {
	h, db := newWebhookHandler(t)

	body := []byte(`{"id":321,"status":"processing"}`)
	_, err := deliver(t, h, "order.updated", body, "not-the-secret")

	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&model.WooOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}
