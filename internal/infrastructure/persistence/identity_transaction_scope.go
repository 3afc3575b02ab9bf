package persistence

import (
	"context"

	appidentity "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormIdentityTransactionScope implements the identity TransactionScope
// using GORM transactions. Registration runs inside it so the user row
// and supplier profile commit together.
type GormIdentityTransactionScope struct {
	db *gorm.DB
}

// NewGormIdentityTransactionScope creates a new GormIdentityTransactionScope
func NewGormIdentityTransactionScope(db *gorm.DB) *GormIdentityTransactionScope {
	return &GormIdentityTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormIdentityTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&identityTransactionalRepositories{tx: tx})
	})
}

// identityTransactionalRepositories provides repositories bound to one transaction
type identityTransactionalRepositories struct {
	tx *gorm.DB
}

// Users returns the user repository scoped to the current transaction
func (r *identityTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// Suppliers returns the supplier repository scoped to the current transaction
func (r *identityTransactionalRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// Ensure GormIdentityTransactionScope implements TransactionScope
var _ appidentity.TransactionScope = (*GormIdentityTransactionScope)(nil)

// Ensure identityTransactionalRepositories implements TransactionalRepositories
var _ appidentity.TransactionalRepositories = (*identityTransactionalRepositories)(nil)
