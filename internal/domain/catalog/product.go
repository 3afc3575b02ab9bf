package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Characteristics is an open key-value bag of product attributes
// (color, size, manufacturer, ...). Stored as JSON.
type Characteristics map[string]string

// Product represents a supplier-owned catalog item.
// It is the aggregate root for catalog operations; stock is mutated only
// through Decrease/RestoreStock so the non-negative invariant holds.
type Product struct {
	shared.BaseAggregateRoot
	SKU             string          `gorm:"type:varchar(50);uniqueIndex:idx_products_sku,where:sku <> ''"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock           int             `gorm:"not null;default:0;check:stock >= 0"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	IsActive        bool            `gorm:"not null;default:true;index"`
	Characteristics Characteristics `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product owned by a supplier
func NewProduct(supplierID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Price:             price,
		SupplierID:        supplierID,
		IsActive:          true,
		Characteristics:   Characteristics{},
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetSKU sets the external catalog identifier
func (p *Product) SetSKU(sku string) error {
	if err := validateSKU(sku); err != nil {
		return err
	}

	p.SKU = strings.TrimSpace(sku)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// UpdatePrice changes the current selling price.
// Prices captured on existing order lines are not affected.
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetStock replaces the stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DecreaseStock removes quantity from stock, rejecting any decrement
// that would take stock below zero
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > p.Stock {
		return shared.ErrInsufficientStock
	}

	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RestoreStock returns quantity to stock, e.g. after an order cancellation
func (p *Product) RestoreStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.Stock += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCharacteristics replaces the characteristics bag
func (p *Product) SetCharacteristics(characteristics Characteristics) {
	if characteristics == nil {
		characteristics = Characteristics{}
	}
	p.Characteristics = characteristics
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the product visible in public listings
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from public listings
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

// ExternalID returns the SKU when present, otherwise the internal ID
// stringified. This is the identifier written to catalog export documents.
func (p *Product) ExternalID() string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.ID.String()
}

// validateProductName validates the product name
func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateSKU validates the external catalog identifier
func validateSKU(sku string) error {
	if len(strings.TrimSpace(sku)) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}
