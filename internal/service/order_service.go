package service

import (
	"context"
	"errors"
	"fmt"

	"mesquite-store/internal/domain"
	"mesquite-store/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("only pending orders can be cancelled")
	ErrInvalidStatus     = errors.New("unknown order status")
)

// OrderService exposes the customer and admin views over placed orders and
// drives the status lifecycle. Customers may only cancel their own pending
// orders; admins may set any status and delete any order.
type OrderService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// ListByUser returns the caller's orders, newest first, with line items.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// ListAll returns every order with line items and customer email.
func (s *orderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// Cancel is the customer-initiated cancellation: the order and its items are
// deleted together, and only while the order is still pending. Orders owned
// by other users are reported as not found rather than forbidden.
func (s *orderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrAuthRequired
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return repository.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return ErrInvalidTransition
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	return nil
}

// UpdateStatus writes the given status unconditionally after checking it is
// part of the fixed vocabulary. Re-writing the current status is fine.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if err == repository.ErrOrderNotFound {
			return err
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// Delete removes an order in any status together with its items.
func (s *orderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		if err == repository.ErrOrderNotFound {
			return err
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}
