package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/shared"
)

func TestNewProduct(t *testing.T) {
	supplierID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(supplierID, "Cordless Drill", decimal.NewFromFloat(129.99))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, supplierID, product.SupplierID)
		assert.Equal(t, "Cordless Drill", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(129.99)))
		assert.Zero(t, product.Stock)
		assert.True(t, product.IsActive)
		assert.Empty(t, product.SKU)
		assert.Nil(t, product.CategoryID)
		assert.NotNil(t, product.Characteristics)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("trims the name", func(t *testing.T) {
		product, err := NewProduct(supplierID, "  Hammer  ", decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, "Hammer", product.Name)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct(supplierID, "Hammer", decimal.NewFromInt(10))
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("fails with nil supplier", func(t *testing.T) {
		_, err := NewProduct(uuid.Nil, "Hammer", decimal.NewFromInt(10))
		require.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(supplierID, "   ", decimal.NewFromInt(10))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewProduct(supplierID, strings.Repeat("a", 201), decimal.NewFromInt(10))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct(supplierID, "Hammer", decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Price cannot be negative")
	})
}

func TestProductStock(t *testing.T) {
	newProduct := func(t *testing.T, stock int) *Product {
		product, err := NewProduct(uuid.New(), "Hammer", decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, product.SetStock(stock))
		return product
	}

	t.Run("set stock", func(t *testing.T) {
		product := newProduct(t, 5)
		assert.Equal(t, 5, product.Stock)
	})

	t.Run("set negative stock fails", func(t *testing.T) {
		product := newProduct(t, 5)
		require.Error(t, product.SetStock(-1))
		assert.Equal(t, 5, product.Stock)
	})

	t.Run("decrease within stock", func(t *testing.T) {
		product := newProduct(t, 5)
		require.NoError(t, product.DecreaseStock(3))
		assert.Equal(t, 2, product.Stock)
	})

	t.Run("decrease below zero fails", func(t *testing.T) {
		product := newProduct(t, 2)
		err := product.DecreaseStock(3)
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 2, product.Stock)
	})

	t.Run("decrease requires positive quantity", func(t *testing.T) {
		product := newProduct(t, 2)
		require.Error(t, product.DecreaseStock(0))
		require.Error(t, product.DecreaseStock(-1))
	})

	t.Run("restore adds back", func(t *testing.T) {
		product := newProduct(t, 2)
		require.NoError(t, product.DecreaseStock(2))
		require.NoError(t, product.RestoreStock(2))
		assert.Equal(t, 2, product.Stock)
	})

	t.Run("restore requires positive quantity", func(t *testing.T) {
		product := newProduct(t, 2)
		require.Error(t, product.RestoreStock(0))
	})
}

func TestProductUpdate(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Hammer", decimal.NewFromInt(10))
	require.NoError(t, err)

	t.Run("updates name and description", func(t *testing.T) {
		require.NoError(t, product.Update("Claw Hammer", "Forged steel head"))
		assert.Equal(t, "Claw Hammer", product.Name)
		assert.Equal(t, "Forged steel head", product.Description)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		require.Error(t, product.Update("", "desc"))
	})

	t.Run("price change keeps history in event", func(t *testing.T) {
		product.ClearDomainEvents()
		require.NoError(t, product.UpdatePrice(decimal.NewFromInt(12)))
		assert.True(t, product.Price.Equal(decimal.NewFromInt(12)))

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductPriceChanged, events[0].EventType())
	})

	t.Run("rejects negative price", func(t *testing.T) {
		require.Error(t, product.UpdatePrice(decimal.NewFromInt(-5)))
	})
}

func TestProductSKU(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Hammer", decimal.NewFromInt(10))
	require.NoError(t, err)

	t.Run("sets trimmed sku", func(t *testing.T) {
		require.NoError(t, product.SetSKU("  HAM-01 "))
		assert.Equal(t, "HAM-01", product.SKU)
	})

	t.Run("rejects overlong sku", func(t *testing.T) {
		require.Error(t, product.SetSKU(strings.Repeat("x", 51)))
	})

	t.Run("external id prefers sku", func(t *testing.T) {
		assert.Equal(t, "HAM-01", product.ExternalID())
	})

	t.Run("external id falls back to internal id", func(t *testing.T) {
		other, err := NewProduct(uuid.New(), "Hammer", decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, other.ID.String(), other.ExternalID())
	})
}

func TestProductVisibility(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Hammer", decimal.NewFromInt(10))
	require.NoError(t, err)

	product.Deactivate()
	assert.False(t, product.IsActive)

	product.Activate()
	assert.True(t, product.IsActive)
}

func TestProductCharacteristics(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Drill", decimal.NewFromInt(99))
	require.NoError(t, err)

	product.SetCharacteristics(Characteristics{"voltage": "18V"})
	assert.Equal(t, "18V", product.Characteristics["voltage"])

	// nil resets to an empty bag, not a nil map
	product.SetCharacteristics(nil)
	assert.NotNil(t, product.Characteristics)
	assert.Empty(t, product.Characteristics)
}

func TestProductCategory(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Drill", decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.False(t, product.HasCategory())

	categoryID := uuid.New()
	product.SetCategory(&categoryID)
	require.True(t, product.HasCategory())
	assert.Equal(t, categoryID, *product.CategoryID)

	product.SetCategory(nil)
	assert.False(t, product.HasCategory())
}

func TestCategory(t *testing.T) {
	t.Run("creates with trimmed name", func(t *testing.T) {
		category, err := NewCategory("  Tools ")
		require.NoError(t, err)
		assert.Equal(t, "Tools", category.Name)
		assert.NotEmpty(t, category.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCategory("   ")
		require.Error(t, err)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("a", 101))
		require.Error(t, err)
	})

	t.Run("rename", func(t *testing.T) {
		category, err := NewCategory("Tools")
		require.NoError(t, err)
		require.NoError(t, category.Rename("Power Tools"))
		assert.Equal(t, "Power Tools", category.Name)
		require.Error(t, category.Rename(""))
	})
}
