package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shopping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCartItemRepository_FindByUserAndProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCartItemRepository(db)
	ctx := context.Background()

	user := mustUser(t, db, "alice", identity.UserTypeCustomer)
	productID := uuid.New()

	item, err := shopping.NewCartItem(user.ID, productID, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	t.Run("finds the line", func(t *testing.T) {
		found, err := repo.FindByUserAndProduct(ctx, user.ID, productID)

		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.Equal(t, 2, found.Quantity)
	})

	t.Run("ErrNotFound for another product", func(t *testing.T) {
		_, err := repo.FindByUserAndProduct(ctx, user.ID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCartItemRepository_FindByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCartItemRepository(db)
	ctx := context.Background()

	user := mustUser(t, db, "bob", identity.UserTypeCustomer)
	other := mustUser(t, db, "carol", identity.UserTypeCustomer)

	for i := 0; i < 3; i++ {
		item, err := shopping.NewCartItem(user.ID, uuid.New(), i+1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, item))
	}
	foreign, err := shopping.NewCartItem(other.ID, uuid.New(), 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, foreign))

	items, err := repo.FindByUser(ctx, user.ID)

	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestGormCartItemRepository_DeleteByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCartItemRepository(db)
	ctx := context.Background()

	user := mustUser(t, db, "dave", identity.UserTypeCustomer)

	for i := 0; i < 2; i++ {
		item, err := shopping.NewCartItem(user.ID, uuid.New(), 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, item))
	}

	require.NoError(t, repo.DeleteByUser(ctx, user.ID))

	items, err := repo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGormCartItemRepository_UpdateQuantity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCartItemRepository(db)
	ctx := context.Background()

	user := mustUser(t, db, "erin", identity.UserTypeCustomer)
	item, err := shopping.NewCartItem(user.ID, uuid.New(), 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	require.NoError(t, item.AddQuantity(4))
	require.NoError(t, repo.Save(ctx, item))

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}
