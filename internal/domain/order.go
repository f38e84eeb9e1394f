package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fixed vocabulary for an order's lifecycle state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a placed order. Total is a snapshot of the cart total at
// placement time and does not track later product price edits.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	UserID          uuid.UUID   `json:"user_id" db:"user_id"`
	Total           float64     `json:"total" db:"total"`
	ShippingAddress string      `json:"shipping_address" db:"shipping_address"`
	Status          OrderStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`

	// Items is populated on reads that join the order_items table.
	Items []OrderItem `json:"items,omitempty" db:"-"`
	// CustomerEmail is populated only for the admin order view.
	CustomerEmail string `json:"customer_email,omitempty" db:"-"`
}

// OrderItem is one line of an order. Price is the product's unit price at
// order time; ProductID goes nil if the product is later deleted, the
// snapshot fields keep historical orders intact.
type OrderItem struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	OrderID   uuid.UUID  `json:"order_id" db:"order_id"`
	ProductID *uuid.UUID `json:"product_id,omitempty" db:"product_id"`
	Quantity  int        `json:"quantity" db:"quantity"`
	Price     float64    `json:"price" db:"price"`

	// ProductName is populated on reads that join the products table.
	ProductName string `json:"product_name,omitempty" db:"-"`
}
