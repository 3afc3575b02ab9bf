package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID         `json:"id"`
	SKU             string            `json:"sku,omitempty"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Price           decimal.Decimal   `json:"price"`
	Stock           int               `json:"stock"`
	SupplierID      uuid.UUID         `json:"supplier_id"`
	CategoryID      *uuid.UUID        `json:"category_id,omitempty"`
	IsActive        bool              `json:"is_active"`
	Characteristics map[string]string `json:"characteristics,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductListFilter represents filter options for product lists
type ProductListFilter struct {
	Search     string   `form:"search"`
	CategoryID string   `form:"category_id" binding:"omitempty,uuid"`
	MinPrice   *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice   *float64 `form:"max_price" binding:"omitempty,gte=0"`
	InStock    bool     `form:"in_stock"`
	Page       int      `form:"page" binding:"omitempty,min=1"`
	PageSize   int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string   `form:"order_by" binding:"omitempty,oneof=name price stock created_at updated_at"`
	OrderDir   string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateProductRequest creates a product for the calling supplier
type CreateProductRequest struct {
	SKU             string            `json:"sku" binding:"omitempty,max=50"`
	Name            string            `json:"name" binding:"required,min=1,max=200"`
	Description     string            `json:"description"`
	Price           decimal.Decimal   `json:"price" binding:"required"`
	Stock           int               `json:"stock" binding:"omitempty,min=0"`
	CategoryID      *uuid.UUID        `json:"category_id"`
	Characteristics map[string]string `json:"characteristics"`
}

// UpdateProductRequest updates a product. Nil fields are left unchanged.
type UpdateProductRequest struct {
	SKU             *string            `json:"sku" binding:"omitempty,max=50"`
	Name            *string            `json:"name" binding:"omitempty,min=1,max=200"`
	Description     *string            `json:"description"`
	Price           *decimal.Decimal   `json:"price"`
	Stock           *int               `json:"stock" binding:"omitempty,min=0"`
	CategoryID      *uuid.UUID         `json:"category_id"`
	IsActive        *bool              `json:"is_active"`
	Characteristics *map[string]string `json:"characteristics"`
}

// PriceUpdate is one line of a bulk price update
type PriceUpdate struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

// BulkPriceUpdateRequest updates prices on several products at once
type BulkPriceUpdateRequest struct {
	Items []PriceUpdate `json:"items" binding:"required,min=1,dive"`
}

// PriceUpdateError describes why one bulk price line was not applied
type PriceUpdateError struct {
	ProductID uuid.UUID `json:"product_id"`
	Message   string    `json:"message"`
}

// BulkPriceUpdateResult summarizes a bulk price update
type BulkPriceUpdateResult struct {
	Updated int                `json:"updated"`
	Errors  []PriceUpdateError `json:"errors,omitempty"`
}

// ProductListResult is a page of products with the total match count
type ProductListResult struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		Stock:           product.Stock,
		SupplierID:      product.SupplierID,
		CategoryID:      product.CategoryID,
		IsActive:        product.IsActive,
		Characteristics: product.Characteristics,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: category.ID, Name: category.Name}
}
