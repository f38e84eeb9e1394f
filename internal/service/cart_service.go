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
	ErrAuthRequired    = errors.New("authentication required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartService owns one user's cart. Every mutation goes straight to the
// store and callers re-read the cart afterwards; the service never patches
// a cached copy, so the view cannot drift from the rows.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo repository.CartRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

// GetCart returns the user's cart lines with product name, price, image and
// stock joined in.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}

	lines, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return lines, nil
}

// Add puts quantity units of the product into the cart. If the product is
// already there, the existing line's quantity is incremented atomically at
// the store, so concurrent adds from two tabs merge into one line.
func (s *cartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if userID == uuid.Nil {
		return ErrAuthRequired
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if err := s.cartRepo.Upsert(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	return nil
}

// Remove deletes one line from the user's cart.
func (s *cartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrAuthRequired
	}

	if err := s.cartRepo.Delete(ctx, userID, itemID); err != nil {
		if err == repository.ErrCartItemNotFound {
			return err
		}
		return fmt.Errorf("failed to remove from cart: %w", err)
	}

	return nil
}

// SetQuantity overwrites one line's quantity. Non-positive quantities are
// rejected here rather than trusted to the caller.
func (s *cartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if userID == uuid.Nil {
		return ErrAuthRequired
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if err := s.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity); err != nil {
		if err == repository.ErrCartItemNotFound {
			return err
		}
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}

	return nil
}

// Clear empties the user's cart in one store call.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrAuthRequired
	}

	if err := s.cartRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
