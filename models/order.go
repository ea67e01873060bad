package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses lists the pipeline in order, terminal states last.
var AllStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled,
}

type Order struct {
	ID                uint                 `json:"id" gorm:"primaryKey"`
	CustomerID        uint                 `json:"customer_id" gorm:"not null;index"`
	ShopID            uint                 `json:"shop_id" gorm:"not null;index"`
	Status            OrderStatus          `json:"status" gorm:"not null;default:'pending'"`
	Subtotal          decimal.Decimal      `json:"subtotal" gorm:"type:decimal(10,2)"`
	Tax               decimal.Decimal      `json:"tax" gorm:"type:decimal(10,2)"`
	DeliveryFee       decimal.Decimal      `json:"delivery_fee" gorm:"type:decimal(10,2)"`
	Total             decimal.Decimal      `json:"total" gorm:"type:decimal(10,2)"`
	PaymentRef        string               `json:"payment_ref"`
	EstimatedPickupAt *time.Time           `json:"estimated_pickup_at,omitempty"`
	Items             []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory     []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID   uint            `json:"menu_item_id" gorm:"not null"`
	Name         string          `json:"name"`                                      // snapshot name
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
	Quantity     int             `json:"quantity" gorm:"not null"`
	Instructions string          `json:"instructions,omitempty"`
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
