package service

import (
	"context"
	"errors"
	"testing"

	"mesquite-store/internal/domain"
	"mesquite-store/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memOrderRepo is an in-memory OrderRepository. CreateWithItems either
// stores the whole order or, when failCreate is set, nothing at all.
type memOrderRepo struct {
	orders     map[uuid.UUID]*domain.Order
	failCreate bool
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *memOrderRepo) CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	if m.failCreate {
		return errors.New("database is unavailable")
	}
	stored := *order
	stored.Items = append([]domain.OrderItem(nil), items...)
	m.orders[order.ID] = &stored
	return nil
}

func (m *memOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *memOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if order.UserID == userID {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	return orders, nil
}

func (m *memOrderRepo) ListAll(ctx context.Context) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

func (m *memOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *memOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func TestPlaceOrderSnapshotsCartAndClearsIt(t *testing.T) {
	ctx := context.Background()
	cartRepo := newMemCartRepo()
	orderRepo := newMemOrderRepo()
	svc := NewCheckoutService(cartRepo, orderRepo, zap.NewNop())

	userID := uuid.New()
	trayID := cartRepo.addProduct("Serving Tray", 10.00, 5)
	boardID := cartRepo.addProduct("Bread Board", 5.50, 5)
	require.NoError(t, cartRepo.Upsert(ctx, userID, trayID, 2))
	require.NoError(t, cartRepo.Upsert(ctx, userID, boardID, 1))

	order, err := svc.PlaceOrder(ctx, userID, "  12 Desert Rd, Tucson  ")
	require.NoError(t, err)

	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "12 Desert Rd, Tucson", order.ShippingAddress)
	assert.InDelta(t, 25.50, order.Total, 1e-9)
	require.Len(t, order.Items, 2)

	byProduct := map[uuid.UUID]domain.OrderItem{}
	for _, item := range order.Items {
		require.NotNil(t, item.ProductID)
		byProduct[*item.ProductID] = item
	}
	assert.Equal(t, 2, byProduct[trayID].Quantity)
	assert.InDelta(t, 10.00, byProduct[trayID].Price, 1e-9)
	assert.Equal(t, "Serving Tray", byProduct[trayID].ProductName)
	assert.Equal(t, 1, byProduct[boardID].Quantity)
	assert.InDelta(t, 5.50, byProduct[boardID].Price, 1e-9)

	stored, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	lines, err := cartRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines, "cart must be cleared after a successful checkout")
}

func TestPlaceOrderRejectsBlankAddress(t *testing.T) {
	ctx := context.Background()
	cartRepo := newMemCartRepo()
	orderRepo := newMemOrderRepo()
	svc := NewCheckoutService(cartRepo, orderRepo, zap.NewNop())

	userID := uuid.New()
	productID := cartRepo.addProduct("Coaster Set", 18.50, 10)
	require.NoError(t, cartRepo.Upsert(ctx, userID, productID, 1))

	_, err := svc.PlaceOrder(ctx, userID, "   \t  ")
	assert.ErrorIs(t, err, ErrEmptyAddress)

	orders, err := orderRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	lines, err := cartRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, lines, 1, "a rejected checkout must not touch the cart")
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	ctx := context.Background()
	svc := NewCheckoutService(newMemCartRepo(), newMemOrderRepo(), zap.NewNop())

	_, err := svc.PlaceOrder(ctx, uuid.New(), "12 Desert Rd")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderRequiresUser(t *testing.T) {
	ctx := context.Background()
	svc := NewCheckoutService(newMemCartRepo(), newMemOrderRepo(), zap.NewNop())

	_, err := svc.PlaceOrder(ctx, uuid.Nil, "12 Desert Rd")
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestPlaceOrderFailureLeavesCartIntact(t *testing.T) {
	ctx := context.Background()
	cartRepo := newMemCartRepo()
	orderRepo := newMemOrderRepo()
	orderRepo.failCreate = true
	svc := NewCheckoutService(cartRepo, orderRepo, zap.NewNop())

	userID := uuid.New()
	productID := cartRepo.addProduct("Salad Bowl", 42.00, 6)
	require.NoError(t, cartRepo.Upsert(ctx, userID, productID, 2))

	_, err := svc.PlaceOrder(ctx, userID, "12 Desert Rd")
	require.Error(t, err)

	lines, err := cartRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity, "a failed checkout must leave the cart for retry")
}
