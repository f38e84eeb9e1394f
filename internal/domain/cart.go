package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem represents one product in a user's cart. At most one row exists
// per (user, product) pair; repeated adds increment the quantity instead.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CartLine is a cart item enriched with the product fields needed for display
// and for snapshotting prices at checkout.
type CartLine struct {
	CartItem
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	ProductImage *string `json:"product_image,omitempty"`
	ProductStock int     `json:"product_stock"`
}

// CartTotal returns the sum of price*quantity over the given lines.
// It is a pure projection over the snapshot and is never persisted.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.ProductPrice * float64(line.Quantity)
	}
	return total
}

// CartCount returns the total number of units across all lines.
func CartCount(lines []CartLine) int {
	var count int
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}
