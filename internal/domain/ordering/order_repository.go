package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order (with items) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUser finds an order (with items) owned by a user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)

	// FindByUser finds all orders of a user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindBySupplier finds orders that contain at least one line owned
	// by the supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByUser counts orders of a user
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
