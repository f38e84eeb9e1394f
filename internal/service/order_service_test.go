package service

import (
	"context"
	"testing"

	"mesquite-store/internal/domain"
	"mesquite-store/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(repo *memOrderRepo, userID uuid.UUID, status domain.OrderStatus) *domain.Order {
	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Total:           64.00,
		ShippingAddress: "12 Desert Rd",
		Status:          status,
	}
	repo.orders[order.ID] = order
	return order
}

func TestCancelPendingOrderDeletesIt(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrderRepo()
	svc := NewOrderService(repo)

	userID := uuid.New()
	order := seedOrder(repo, userID, domain.OrderStatusPending)

	require.NoError(t, svc.Cancel(ctx, userID, order.ID))

	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestCancelNonPendingOrderFails(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrderRepo()
	svc := NewOrderService(repo)

	userID := uuid.New()
	order := seedOrder(repo, userID, domain.OrderStatusShipped)

	err := svc.Cancel(ctx, userID, order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, stored.Status)
}

func TestCancelForeignOrderIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrderRepo()
	svc := NewOrderService(repo)

	owner := uuid.New()
	order := seedOrder(repo, owner, domain.OrderStatusPending)

	err := svc.Cancel(ctx, uuid.New(), order.ID)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	_, err = repo.FindByID(ctx, order.ID)
	assert.NoError(t, err, "a foreign cancel attempt must not delete the order")
}

func TestCancelRequiresUser(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(newMemOrderRepo())

	err := svc.Cancel(ctx, uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestUpdateStatusAcceptsKnownStatuses(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrderRepo()
	svc := NewOrderService(repo)

	order := seedOrder(repo, uuid.New(), domain.OrderStatusPending)

	require.NoError(t, svc.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped))
	// Re-applying the current status is a no-op, not an error.
	require.NoError(t, svc.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped))

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, stored.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrderRepo()
	svc := NewOrderService(repo)

	order := seedOrder(repo, uuid.New(), domain.OrderStatusPending)

	err := svc.UpdateStatus(ctx, order.ID, domain.OrderStatus("on-fire"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
}

func TestAdminDeleteIgnoresStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrderRepo()
	svc := NewOrderService(repo)

	order := seedOrder(repo, uuid.New(), domain.OrderStatusDelivered)

	require.NoError(t, svc.Delete(ctx, order.ID))

	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestListByUserReturnsOnlyOwnOrders(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrderRepo()
	svc := NewOrderService(repo)

	alice := uuid.New()
	bob := uuid.New()
	seedOrder(repo, alice, domain.OrderStatusPending)
	seedOrder(repo, alice, domain.OrderStatusShipped)
	seedOrder(repo, bob, domain.OrderStatusPending)

	orders, err := svc.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, alice, order.UserID)
	}
}
