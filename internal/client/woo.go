package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/config"
	"learnplay-commerce/internal/dto"
	"learnplay-commerce/internal/model"
)

type WooClient interface {
	CreateOrder(ctx context.Context, items []dto.OrderItem, userID string) (*dto.CreateOrderResponse, error)
	GetOrder(ctx context.Context, orderID int64) (*dto.GetOrderResponse, error)
	ListProducts(ctx context.Context, search string, page, perPage int) ([]dto.Product, error)
}

type wooClientImpl struct {
	httpClient     *http.Client
	storeURL       string
	consumerKey    string
	consumerSecret string
}

func NewWooClient(wooCfg *config.Woo) WooClient {
	return &wooClientImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		storeURL:       wooCfg.StoreURL,
		consumerKey:    wooCfg.ConsumerKey,
		consumerSecret: wooCfg.ConsumerSecret,
	}
}

type wooOrderResult struct {
	ID       int64  `json:"id"`
	OrderKey string `json:"order_key"`
	Status   string `json:"status"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type wooProductResult struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	OnSale      bool   `json:"on_sale"`
	Featured    bool   `json:"featured"`
	Images      []struct {
		Src string `json:"src"`
	} `json:"images"`
}

type wooErrorResult struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// endpoint builds a REST URL with the server-held key pair appended as query
// credentials, the auth scheme WooCommerce uses over HTTPS.
func (c *wooClientImpl) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("consumer_key", c.consumerKey)
	query.Set("consumer_secret", c.consumerSecret)
	return c.storeURL + "/wp-json/wc/v3" + path + "?" + query.Encode()
}

func (c *wooClientImpl) do(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal req payload: %w", err)
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream(0, "storefront unreachable: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var wooErr wooErrorResult
		if json.Unmarshal(body, &wooErr) == nil && wooErr.Message != "" {
			return nil, apperr.Upstream(resp.StatusCode, "storefront error: %s", wooErr.Message)
		}
		return nil, apperr.Upstream(resp.StatusCode, "storefront error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func (c *wooClientImpl) CreateOrder(ctx context.Context, items []dto.OrderItem, userID string) (*dto.CreateOrderResponse, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	lineItems := make([]map[string]interface{}, len(items))
	for i, item := range items {
		lineItems[i] = map[string]interface{}{
			"product_id": item.ID,
			"quantity":   item.Quantity,
		}
	}

	// payment_method stays unset and set_paid false: the order is completed
	// by the storefront's own checkout page, not by this service.
	payload := map[string]interface{}{
		"set_paid":   false,
		"line_items": lineItems,
	}
	if userID != "" {
		payload["meta_data"] = []map[string]interface{}{
			{"key": model.MetaKeyUserID, "value": userID},
		}
	}

	body, err := c.do(ctx, http.MethodPost, c.endpoint("/orders", nil), payload)
	if err != nil {
		return nil, err
	}

	var result wooOrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode storefront response: %w", err)
	}

	return &dto.CreateOrderResponse{
		OrderID:     result.ID,
		OrderKey:    result.OrderKey,
		CheckoutURL: buildCheckoutURL(c.storeURL, result.ID, result.OrderKey),
	}, nil
}

func (c *wooClientImpl) GetOrder(ctx context.Context, orderID int64) (*dto.GetOrderResponse, error) {
	if orderID == 0 {
		return nil, apperr.Validation("order_id is required")
	}

	body, err := c.do(ctx, http.MethodGet, c.endpoint("/orders/"+strconv.FormatInt(orderID, 10), nil), nil)
	if err != nil {
		return nil, err
	}

	var result wooOrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode storefront response: %w", err)
	}

	return &dto.GetOrderResponse{
		ID:       result.ID,
		Status:   result.Status,
		Total:    result.Total,
		Currency: result.Currency,
	}, nil
}

func (c *wooClientImpl) ListProducts(ctx context.Context, search string, page, perPage int) ([]dto.Product, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	if search != "" {
		query.Set("search", search)
	}

	body, err := c.do(ctx, http.MethodGet, c.endpoint("/products", query), nil)
	if err != nil {
		return nil, err
	}

	var results []wooProductResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode storefront response: %w", err)
	}

	products := make([]dto.Product, len(results))
	for i, r := range results {
		p := dto.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: stripHTML(r.Description),
			Price:       parsePrice(r.Price),
			Badge:       productBadge(r),
		}
		if len(r.Images) > 0 {
			p.ImageURL = r.Images[0].Src
		}
		products[i] = p
	}

	return products, nil
}

func buildCheckoutURL(storeURL string, orderID int64, orderKey string) string {
	return fmt.Sprintf("%s/checkout/order-pay/%d/?pay_for_order=true&key=%s", storeURL, orderID, orderKey)
}

func productBadge(p wooProductResult) string {
	switch {
	case p.OnSale:
		return "Sale"
	case p.Featured:
		return "Best Seller"
	default:
		return ""
	}
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML flattens the storefront's rich-text description to plain text.
func stripHTML(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

func parsePrice(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
