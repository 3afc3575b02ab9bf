package catalogsync

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
)

// TransactionalRepositories exposes the repositories a catalog import
// needs inside one transaction
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Categories() catalog.CategoryRepository
}

// TransactionScope runs a catalog import atomically. Either every
// upsert in the batch commits or none do.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope executes the function against the provided
// repositories without transaction semantics. Intended for tests.
type NoOpTransactionScope struct {
	ProductRepo  catalog.ProductRepository
	CategoryRepo catalog.CategoryRepository
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.ProductRepo
}

func (s *NoOpTransactionScope) Categories() catalog.CategoryRepository {
	return s.CategoryRepo
}
