package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// CheckoutRequest represents a checkout attempt over the current cart
type CheckoutRequest struct {
	DeliveryAddressID *uuid.UUID `json:"delivery_address_id"`
	// AllowPartial lets checkout fulfill each line up to the available
	// stock, keeping any unfulfilled remainder in the cart. With
	// AllowPartial false any shortfall fails the whole checkout.
	AllowPartial bool `json:"allow_partial"`
}

// Reasons a cart line cannot be fulfilled
const (
	ReasonInsufficientStock  = "insufficient_stock"
	ReasonProductUnavailable = "product_unavailable"
	ReasonProductMissing     = "product_missing"
	ReasonSupplierPaused     = "supplier_not_accepting_orders"
)

// UnfulfillableLine describes a cart line that cannot be satisfied
type UnfulfillableLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
	Reason      string    `json:"reason"`
}

// CheckoutResponse represents the result of a successful checkout.
// Skipped is only populated for partial checkouts and lists every
// shortfall, including lines that were only partially fulfilled.
type CheckoutResponse struct {
	Order   OrderResponse       `json:"order"`
	Skipped []UnfulfillableLine `json:"skipped,omitempty"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	UserID            uuid.UUID           `json:"user_id"`
	DeliveryAddressID *uuid.UUID          `json:"delivery_address_id,omitempty"`
	Status            string              `json:"status"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	Items             []OrderItemResponse `json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	CancelledAt       *time.Time          `json:"cancelled_at,omitempty"`
}

// UpdateOrderStatusRequest advances an order to a new status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing shipped delivered"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrderItemResponse converts a domain order line to a response DTO
func ToOrderItemResponse(item ordering.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		SupplierID:  item.SupplierID,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount(),
	}
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = ToOrderItemResponse(item)
	}

	return OrderResponse{
		ID:                order.ID,
		UserID:            order.UserID,
		DeliveryAddressID: order.DeliveryAddressID,
		Status:            order.Status.String(),
		TotalAmount:       order.TotalAmount,
		Items:             items,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
		CancelledAt:       order.CancelledAt,
	}
}
