package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shopping"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest puts a product into the cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes a cart line's quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartLineResponse represents a cart line with its product data
type CartLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Available   int             `json:"available"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CartResponse represents the whole cart
type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// AddressRequest creates or updates a delivery address
type AddressRequest struct {
	Label     string `json:"label" binding:"omitempty,max=50"`
	City      string `json:"city" binding:"required,max=100"`
	Street    string `json:"street" binding:"required,max=200"`
	House     string `json:"house" binding:"required,max=20"`
	Apartment string `json:"apartment" binding:"omitempty,max=20"`
	Phone     string `json:"phone" binding:"omitempty,max=15"`
	IsDefault bool   `json:"is_default"`
}

// AddressResponse represents a delivery address in API responses
type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label,omitempty"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house"`
	Apartment string    `json:"apartment,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// ToAddressResponse converts a domain address to a response DTO
func ToAddressResponse(address *shopping.DeliveryAddress) AddressResponse {
	return AddressResponse{
		ID:        address.ID,
		Label:     address.Label,
		City:      address.City,
		Street:    address.Street,
		House:     address.House,
		Apartment: address.Apartment,
		Phone:     address.Phone,
		IsDefault: address.IsDefault,
		CreatedAt: address.CreatedAt,
	}
}
