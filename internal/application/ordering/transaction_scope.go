package ordering

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shopping"
)

// TransactionScope provides transactional access to the repositories
// checkout and cancellation touch. When a function is executed within a
// transaction scope, all repository operations are part of the same
// database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Users returns the user repository scoped to the current transaction
	Users() identity.UserRepository
	// Suppliers returns the supplier repository scoped to the current transaction
	Suppliers() partner.SupplierRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// CartItems returns the cart repository scoped to the current transaction
	CartItems() shopping.CartItemRepository
	// Orders returns the order repository scoped to the current transaction
	Orders() ordering.OrderRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	userRepo     identity.UserRepository
	supplierRepo partner.SupplierRepository
	productRepo  catalog.ProductRepository
	cartRepo     shopping.CartItemRepository
	orderRepo    ordering.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	userRepo identity.UserRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	cartRepo shopping.CartItemRepository,
	orderRepo ordering.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		userRepo:     userRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Users returns the user repository
func (s *NoOpTransactionScope) Users() identity.UserRepository {
	return s.userRepo
}

// Suppliers returns the supplier repository
func (s *NoOpTransactionScope) Suppliers() partner.SupplierRepository {
	return s.supplierRepo
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.productRepo
}

// CartItems returns the cart repository
func (s *NoOpTransactionScope) CartItems() shopping.CartItemRepository {
	return s.cartRepo
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() ordering.OrderRepository {
	return s.orderRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
