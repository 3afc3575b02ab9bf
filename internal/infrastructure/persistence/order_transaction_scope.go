package persistence

import (
	"context"

	appordering "github.com/marketplace/backend/internal/application/ordering"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shopping"
	"gorm.io/gorm"
)

// GormOrderTransactionScope implements the ordering TransactionScope
// using GORM transactions. Checkout and cancellation run inside it so
// stock movement, order state and cart cleanup commit atomically.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos appordering.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderTransactionalRepositories{tx: tx})
	})
}

// orderTransactionalRepositories provides repositories bound to one transaction
type orderTransactionalRepositories struct {
	tx *gorm.DB
}

// Users returns the user repository scoped to the current transaction
func (r *orderTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// Suppliers returns the supplier repository scoped to the current transaction
func (r *orderTransactionalRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction
func (r *orderTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// CartItems returns the cart repository scoped to the current transaction
func (r *orderTransactionalRepositories) CartItems() shopping.CartItemRepository {
	return NewGormCartItemRepository(r.tx)
}

// Orders returns the order repository scoped to the current transaction
func (r *orderTransactionalRepositories) Orders() ordering.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Ensure GormOrderTransactionScope implements TransactionScope
var _ appordering.TransactionScope = (*GormOrderTransactionScope)(nil)

// Ensure orderTransactionalRepositories implements TransactionalRepositories
var _ appordering.TransactionalRepositories = (*orderTransactionalRepositories)(nil)
