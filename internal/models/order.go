package models

import (
	"time"
)

// Order represents a customer order
type Order struct {
	ID                 string      `gorm:"primary_key" json:"id"`
	Items              []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
	Status             OrderStatus `gorm:"index" json:"status"`
	Type               OrderType   `json:"type"`
	TableNumber        string      `json:"table_number,omitempty"`
	Subtotal           float64     `json:"subtotal"`
	Tax                float64     `json:"tax"`
	Total              float64     `json:"total"`
	PreparationTime    int         `json:"preparation_time"` // minutes
	EstimatedReadyTime *time.Time  `json:"estimated_ready_time,omitempty"`
	CreatedAt          time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// OrderItem represents an item in an order
type OrderItem struct {
	ID            uint        `gorm:"primary_key" json:"-"`
	OrderID       string      `gorm:"index" json:"-"`
	MenuItemID    string      `json:"id"`
	Name          string      `json:"name"`
	Quantity      int         `json:"quantity"`
	Price         float64     `json:"price"`
	Dietary       Dietary     `json:"dietary,omitempty"`
	Allergens     StringSlice `gorm:"type:text" json:"allergens,omitempty"`
	ExtraRequests StringSlice `gorm:"type:text" json:"extra_requests,omitempty"`
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusServed:
		return true
	}
	return false
}

// OrderType is how the order leaves the kitchen
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

// Valid reports whether t is a known order type
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

// IsLive reports whether the order still needs kitchen or floor attention
func (o *Order) IsLive() bool {
	return o.Status != OrderStatusServed
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}
