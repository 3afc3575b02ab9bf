package identity

import (
	"context"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/partner"
)

// TransactionalRepositories exposes the repositories registration needs
// inside one transaction
type TransactionalRepositories interface {
	Users() identity.UserRepository
	Suppliers() partner.SupplierRepository
}

// TransactionScope runs registration atomically so a supplier account
// never commits without its supplier profile.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope executes the function against the provided
// repositories without transaction semantics. Intended for tests.
type NoOpTransactionScope struct {
	UserRepo     identity.UserRepository
	SupplierRepo partner.SupplierRepository
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Users() identity.UserRepository {
	return s.UserRepo
}

func (s *NoOpTransactionScope) Suppliers() partner.SupplierRepository {
	return s.SupplierRepo
}
