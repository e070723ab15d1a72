package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MetaKeyUserID is the storefront meta_data key carrying the application
// user id through checkout and back on webhooks.
const MetaKeyUserID = "_learnplay_user_id"

// Subscription lifecycle states.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// Payment order states. Fulfillment status and payment status are tracked as
// separate columns so a gateway-confirmed transition can be introduced without
// a schema change.
const (
	OrderCompleted  = "completed"
	PaymentCaptured = "captured"
)

// LineItem is the normalized mirror of one storefront line item.
type LineItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	Price     float64 `json:"price"`
	SKU       *string `json:"sku"`
}

type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LineItems) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// MetaEntry is one opaque key/value pair forwarded by the storefront.
type MetaEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type MetaData []MetaEntry

func (m MetaData) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MetaData) Scan(value interface{}) error {
	return scanJSON(value, m)
}

func scanJSON(value, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// WooOrder mirrors one storefront order. Exactly one row per WooOrderID; the
// unique index is the authoritative guard against webhook redelivery races.
type WooOrder struct {
	ID            uint      `gorm:"primaryKey"`
	WooOrderID    int64     `gorm:"uniqueIndex;not null"`
	Status        string    `gorm:"size:32;index;not null"` // pending, processing, completed, cancelled, refunded, failed
	Total         string    `gorm:"size:32"`                // decimal string as sent by the storefront
	Currency      string    `gorm:"size:8"`
	LineItems     LineItems `gorm:"type:json"`
	MetaData      MetaData  `gorm:"type:json"`
	UserID        *string   `gorm:"size:36;index"`
	WooCustomerID *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentOrder is a direct-checkout purchase, recorded locally and never
// mirrored to the storefront.
type PaymentOrder struct {
	ID            string          `gorm:"primaryKey;size:36"`
	UserID        string          `gorm:"size:36;index;not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status        string          `gorm:"size:32;not null"`
	PaymentStatus string          `gorm:"size:32;not null"`
	CreatedAt     time.Time
}

type PaymentOrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → payment_orders.id
	OrderID   string          `gorm:"size:36;index;not null"`
	ProductID int64           `gorm:"index;not null"`
	Title     string          `gorm:"size:255"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null"`
	CreatedAt time.Time
}

type Plan struct {
	ID             string          `gorm:"primaryKey;size:64"`
	Name           string          `gorm:"size:128;not null"`
	DurationMonths int             `gorm:"not null"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2)"`
	Currency       string          `gorm:"size:8"`
}

type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"size:36;index;not null"`
	PlanID    string    `gorm:"size:64;not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"size:16;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is the local mirror of the platform user directory, read for
// notification addressing only.
type User struct {
	ID          string `gorm:"primaryKey;size:36"`
	Email       string `gorm:"size:255;index;not null"`
	DisplayName string `gorm:"size:128"`
	CreatedAt   time.Time
}

// FileAsset is a downloadable product attachment.
type FileAsset struct {
	ID          string `gorm:"primaryKey;size:64"`
	ProductID   int64  `gorm:"index;not null"`
	Filename    string `gorm:"size:255;not null"`
	StoragePath string `gorm:"size:512;not null"`
	CreatedAt   time.Time
}
