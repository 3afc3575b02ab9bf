package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartItemRepository defines the interface for cart persistence
type CartItemRepository interface {
	// FindByID finds a cart line by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// FindByUser finds all cart lines belonging to a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CartItem, error)

	// FindByUserAndProduct finds the cart line for a (user, product) pair
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*CartItem, error)

	// Save creates or updates a cart line
	Save(ctx context.Context, item *CartItem) error

	// Delete deletes a cart line
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser deletes all cart lines belonging to a user
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// DeliveryAddressRepository defines the interface for address persistence
type DeliveryAddressRepository interface {
	// FindByID finds an address by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryAddress, error)

	// FindByUser finds all addresses belonging to a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]DeliveryAddress, error)

	// CountByUser counts addresses belonging to a user
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Save creates or updates an address
	Save(ctx context.Context, address *DeliveryAddress) error

	// Delete deletes an address
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearDefaultForUser clears the default flag on all of a user's addresses
	ClearDefaultForUser(ctx context.Context, userID uuid.UUID) error
}
