package dto

type OrderItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type CreateOrderRequest struct {
	Items  []OrderItem `json:"items"`
	UserID string      `json:"user_id,omitempty"`
}

type CreateOrderResponse struct {
	OrderID     int64  `json:"order_id"`
	OrderKey    string `json:"order_key"`
	CheckoutURL string `json:"checkout_url"`
}

type GetOrderRequest struct {
	OrderID int64 `json:"order_id"`
}

type GetOrderResponse struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Badge       string  `json:"badge,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type PaymentItem struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type ProcessPaymentRequest struct {
	Items       []PaymentItem `json:"items"`
	UserID      string        `json:"user_id"`
	TotalAmount float64       `json:"total_amount"`
}

type ProcessPaymentResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
}

type ManageSubscriptionRequest struct {
	Action string `json:"action"` // create, cancel, update
	UserID string `json:"user_id"`
	PlanID string `json:"plan_id,omitempty"`
}

type SubscriptionResponse struct {
	Success   bool   `json:"success"`
	ID        uint   `json:"id,omitempty"`
	PlanID    string `json:"plan_id,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Status    string `json:"status,omitempty"`
}

type NotifyRequest struct {
	Type    string                 `json:"type"`
	UserID  string                 `json:"user_id,omitempty"`
	Message string                 `json:"message,omitempty"`
	Title   string                 `json:"title,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

type DownloadResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}
