package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CartItem represents one product line in a user's shopping cart.
// A user holds at most one line per product; adding the same product
// again merges into the existing line.
type CartItem struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int       `gorm:"not null;check:quantity > 0"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a new cart line
func NewCartItem(userID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &CartItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ProductID:         productID,
		Quantity:          quantity,
	}, nil
}

// SetQuantity replaces the line quantity
func (c *CartItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	c.Quantity = quantity
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// AddQuantity merges additional quantity into the line
func (c *CartItem) AddQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	c.Quantity += quantity
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ReduceQuantity subtracts quantity from the line. The line must retain
// a positive quantity; callers remove the line instead of reducing to zero.
func (c *CartItem) ReduceQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity >= c.Quantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Reduction must leave a positive quantity")
	}

	c.Quantity -= quantity
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}
