package persistence

import (
	"testing"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shopping"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&identity.User{},
		&partner.Supplier{},
		&catalog.Category{},
		&catalog.Product{},
		&shopping.CartItem{},
		&shopping.DeliveryAddress{},
		&ordering.Order{},
		&ordering.OrderItem{},
	)
	require.NoError(t, err)

	return db
}

// mustUser creates and persists a user for tests
func mustUser(t *testing.T, db *gorm.DB, username string, userType identity.UserType) *identity.User {
	t.Helper()

	user, err := identity.NewUser(username, username+"@example.com", "password123", userType)
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)
	return user
}

// mustSupplier creates and persists a supplier profile for tests
func mustSupplier(t *testing.T, db *gorm.DB, name string) *partner.Supplier {
	t.Helper()

	owner := mustUser(t, db, "owner-"+name, identity.UserTypeSupplier)
	supplier, err := partner.NewSupplier(owner.ID, name)
	require.NoError(t, err)
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}
