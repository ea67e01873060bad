package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records one gateway order opened during checkout.
type Payment struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	ShopID           uint            `json:"shop_id" gorm:"not null;index"`
	CustomerID       uint            `json:"customer_id" gorm:"not null;index"`
	OrderID          *uint           `json:"order_id,omitempty"`
	Receipt          string          `json:"receipt" gorm:"not null"`
	GatewayOrderID   string          `json:"gateway_order_id" gorm:"not null;uniqueIndex"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	AmountMinor      int64           `json:"amount_minor"`
	Currency         string          `json:"currency"`
	Status           PaymentStatus   `json:"status" gorm:"not null;default:'created'"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
