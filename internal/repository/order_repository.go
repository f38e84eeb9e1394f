package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mesquite-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems inserts the order and all of its line items in a single
// transaction. Either the whole order lands or none of it does; a partial
// order with missing items can never be observed.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, user_id, total, shipping_address, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.UserID,
		order.Total,
		order.ShippingAddress,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// FindByID retrieves one order with its items.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, user_id, total, shipping_address, status, created_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Total,
		&order.ShippingAddress,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.itemsForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListByUser retrieves the user's orders, newest first, each with its items.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.total, o.shipping_address, o.status, o.created_at,
		       oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       COALESCE(p.name, '')
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows, false)
}

// ListAll retrieves every order for the admin view, newest first, each with
// its items and the customer's email.
func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.total, o.shipping_address, o.status, o.created_at,
		       oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       COALESCE(p.name, ''), u.email
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows, true)
}

// UpdateStatus writes the status field unconditionally. Writing the current
// status again succeeds and changes nothing else.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete removes the order and its items in one transaction, items first
// since they reference the order.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order delete: %w", err)
	}

	return nil
}

// itemsForOrder loads the line items of one order with product names.
func (r *orderRepository) itemsForOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       COALESCE(p.name, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		var productID uuid.NullUUID
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&productID,
			&item.Quantity,
			&item.Price,
			&item.ProductName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if productID.Valid {
			id := productID.UUID
			item.ProductID = &id
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// collectOrders groups the rows of an orders-with-items join back into
// orders. The join left-joins items, so item columns may be NULL for an
// order with no items.
func collectOrders(rows *sql.Rows, withEmail bool) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	byID := map[uuid.UUID]*domain.Order{}

	for rows.Next() {
		var order domain.Order
		var itemID, itemOrderID, productID uuid.NullUUID
		var quantity sql.NullInt64
		var price sql.NullFloat64
		var productName string

		dest := []interface{}{
			&order.ID,
			&order.UserID,
			&order.Total,
			&order.ShippingAddress,
			&order.Status,
			&order.CreatedAt,
			&itemID,
			&itemOrderID,
			&productID,
			&quantity,
			&price,
			&productName,
		}
		if withEmail {
			dest = append(dest, &order.CustomerEmail)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		existing, ok := byID[order.ID]
		if !ok {
			order.Items = []domain.OrderItem{}
			existing = &order
			byID[order.ID] = existing
			orders = append(orders, existing)
		}

		if itemID.Valid {
			item := domain.OrderItem{
				ID:          itemID.UUID,
				OrderID:     itemOrderID.UUID,
				Quantity:    int(quantity.Int64),
				Price:       price.Float64,
				ProductName: productName,
			}
			if productID.Valid {
				id := productID.UUID
				item.ProductID = &id
			}
			existing.Items = append(existing.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
