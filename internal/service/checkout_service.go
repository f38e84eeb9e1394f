package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mesquite-store/internal/domain"
	"mesquite-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrEmptyAddress = errors.New("shipping address is required")
)

// CheckoutService converts a cart into a durable order with snapshot line
// items and then clears the cart.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress string) (*domain.Order, error)
}

type checkoutService struct {
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// PlaceOrder reads the current cart snapshot, writes the order and one line
// item per cart line in a single transaction, then clears the cart. Each
// line item snapshots the product's unit price at call time, so later price
// edits never rewrite order history. The cart is cleared only after the
// order has committed; a failed checkout leaves it intact for retry.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress string) (*domain.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}

	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, ErrEmptyAddress
	}

	lines, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart for checkout: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Total:           domain.CartTotal(lines),
		ShippingAddress: shippingAddress,
		Status:          domain.OrderStatusPending,
		CreatedAt:       time.Now(),
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID := line.ProductID
		items = append(items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   &productID,
			Quantity:    line.Quantity,
			Price:       line.ProductPrice,
			ProductName: line.ProductName,
		})
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	order.Items = items

	// The order is durable at this point. A failed clear leaves stale cart
	// rows behind, which the user can remove; it must not fail the checkout.
	if err := s.cartRepo.DeleteByUser(ctx, userID); err != nil {
		s.logger.Warn("Order placed but cart clear failed",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return order, nil
}
