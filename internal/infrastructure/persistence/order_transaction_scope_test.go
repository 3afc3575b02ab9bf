package persistence

import (
	"context"
	"errors"
	"testing"

	appordering "github.com/marketplace/backend/internal/application/ordering"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormOrderTransactionScope(db)
	ctx := context.Background()

	user := mustUser(t, db, "alice", identity.UserTypeCustomer)
	supplier := mustSupplier(t, db, "acme")
	product := mustProduct(t, db, NewGormProductRepository(db), supplier.ID, "Widget", 9.99, 10)

	err := scope.Execute(ctx, func(repos appordering.TransactionalRepositories) error {
		p, err := repos.Products().FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := p.DecreaseStock(3); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, p); err != nil {
			return err
		}

		order, err := ordering.NewOrder(user.ID, nil)
		if err != nil {
			return err
		}
		if _, err := order.AddItem(p.ID, supplier.ID, p.Name, 3, decimal.NewFromFloat(9.99)); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	require.NoError(t, err)

	found, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.Stock)
}

func TestGormOrderTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormOrderTransactionScope(db)
	ctx := context.Background()

	supplier := mustSupplier(t, db, "acme")
	product := mustProduct(t, db, NewGormProductRepository(db), supplier.ID, "Widget", 9.99, 10)

	boom := errors.New("boom")
	err := scope.Execute(ctx, func(repos appordering.TransactionalRepositories) error {
		p, err := repos.Products().FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := p.DecreaseStock(5); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The stock decrement must not survive the rollback
	found, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, found.Stock)
}
