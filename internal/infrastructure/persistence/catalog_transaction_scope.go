package persistence

import (
	"context"

	"github.com/marketplace/backend/internal/application/catalogsync"
	"github.com/marketplace/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormCatalogTransactionScope implements the catalogsync
// TransactionScope using GORM transactions. A catalog import runs
// inside it so category creation and product upserts commit atomically.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos catalogsync.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&catalogTransactionalRepositories{tx: tx})
	})
}

// catalogTransactionalRepositories provides repositories bound to one transaction
type catalogTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction
func (r *catalogTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Categories returns the category repository scoped to the current transaction
func (r *catalogTransactionalRepositories) Categories() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// Ensure GormCatalogTransactionScope implements TransactionScope
var _ catalogsync.TransactionScope = (*GormCatalogTransactionScope)(nil)

// Ensure catalogTransactionalRepositories implements TransactionalRepositories
var _ catalogsync.TransactionalRepositories = (*catalogTransactionalRepositories)(nil)
