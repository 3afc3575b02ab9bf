package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/shared"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}

	assert.False(t, OrderStatus("unknown").IsValid())
	assert.True(t, OrderStatusPending.IsValid())
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		userID := uuid.New()
		addressID := uuid.New()
		order, err := NewOrder(userID, &addressID)
		require.NoError(t, err)

		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, addressID, *order.DeliveryAddressID)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Empty(t, order.Items)
		assert.True(t, order.TotalAmount.IsZero())
	})

	t.Run("address is optional", func(t *testing.T) {
		order, err := NewOrder(uuid.New(), nil)
		require.NoError(t, err)
		assert.Nil(t, order.DeliveryAddressID)
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, nil)
		require.Error(t, err)
	})
}

func TestOrderItems(t *testing.T) {
	newPending := func(t *testing.T) *Order {
		order, err := NewOrder(uuid.New(), nil)
		require.NoError(t, err)
		return order
	}

	t.Run("adding items recalculates total", func(t *testing.T) {
		order := newPending(t)
		supplierID := uuid.New()

		_, err := order.AddItem(uuid.New(), supplierID, "Hammer", 2, decimal.NewFromFloat(9.99))
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), supplierID, "Drill", 1, decimal.NewFromFloat(129.99))
		require.NoError(t, err)

		require.Len(t, order.Items, 2)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(149.97)),
			"got %s", order.TotalAmount)
	})

	t.Run("duplicate product rejected", func(t *testing.T) {
		order := newPending(t)
		productID := uuid.New()

		_, err := order.AddItem(productID, uuid.New(), "Hammer", 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		_, err = order.AddItem(productID, uuid.New(), "Hammer", 1, decimal.NewFromInt(10))
		require.Error(t, err)
	})

	t.Run("line validation", func(t *testing.T) {
		order := newPending(t)

		_, err := order.AddItem(uuid.Nil, uuid.New(), "Hammer", 1, decimal.NewFromInt(10))
		require.Error(t, err)
		_, err = order.AddItem(uuid.New(), uuid.New(), "", 1, decimal.NewFromInt(10))
		require.Error(t, err)
		_, err = order.AddItem(uuid.New(), uuid.New(), "Hammer", 0, decimal.NewFromInt(10))
		require.Error(t, err)
		_, err = order.AddItem(uuid.New(), uuid.New(), "Hammer", 1, decimal.NewFromInt(-1))
		require.Error(t, err)
	})

	t.Run("no items after leaving pending", func(t *testing.T) {
		order := newPending(t)
		_, err := order.AddItem(uuid.New(), uuid.New(), "Hammer", 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, order.SetStatus(OrderStatusProcessing))

		_, err = order.AddItem(uuid.New(), uuid.New(), "Drill", 1, decimal.NewFromInt(99))
		require.Error(t, err)
	})

	t.Run("amount is quantity times captured price", func(t *testing.T) {
		item := OrderItem{Quantity: 3, UnitPrice: decimal.NewFromFloat(2.50)}
		assert.True(t, item.Amount().Equal(decimal.NewFromFloat(7.50)))
	})
}

func TestOrderPlace(t *testing.T) {
	order, err := NewOrder(uuid.New(), nil)
	require.NoError(t, err)

	t.Run("empty order cannot be placed", func(t *testing.T) {
		require.Error(t, order.Place())
	})

	t.Run("placing publishes OrderPlaced", func(t *testing.T) {
		_, err := order.AddItem(uuid.New(), uuid.New(), "Hammer", 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, order.Place())

		events := order.GetDomainEvents()
		require.NotEmpty(t, events)
		assert.Equal(t, EventTypeOrderPlaced, events[len(events)-1].EventType())
	})
}

func TestOrderCancel(t *testing.T) {
	newWithItem := func(t *testing.T) *Order {
		order, err := NewOrder(uuid.New(), nil)
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), uuid.New(), "Hammer", 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		return order
	}

	t.Run("cancel from pending", func(t *testing.T) {
		order := newWithItem(t)
		require.True(t, order.CanCancel())
		require.NoError(t, order.Cancel())
		assert.Equal(t, OrderStatusCancelled, order.Status)
		require.NotNil(t, order.CancelledAt)
	})

	t.Run("cancel from processing", func(t *testing.T) {
		order := newWithItem(t)
		require.NoError(t, order.SetStatus(OrderStatusProcessing))
		require.NoError(t, order.Cancel())
	})

	t.Run("cancel after shipping fails", func(t *testing.T) {
		order := newWithItem(t)
		require.NoError(t, order.SetStatus(OrderStatusProcessing))
		require.NoError(t, order.SetStatus(OrderStatusShipped))
		require.False(t, order.CanCancel())

		err := order.Cancel()
		require.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("invalid transition yields ErrInvalidState", func(t *testing.T) {
		order := newWithItem(t)
		err := order.SetStatus(OrderStatusDelivered)
		require.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		order := newWithItem(t)
		require.Error(t, order.SetStatus(OrderStatus("refunded")))
	})
}

func TestItemsBySupplier(t *testing.T) {
	order, err := NewOrder(uuid.New(), nil)
	require.NoError(t, err)

	supplierA := uuid.New()
	supplierB := uuid.New()

	_, err = order.AddItem(uuid.New(), supplierA, "Hammer", 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), supplierA, "Drill", 1, decimal.NewFromInt(99))
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), supplierB, "Gloves", 2, decimal.NewFromInt(5))
	require.NoError(t, err)

	groups := order.ItemsBySupplier()
	require.Len(t, groups, 2)
	assert.Len(t, groups[supplierA], 2)
	assert.Len(t, groups[supplierB], 1)
}
