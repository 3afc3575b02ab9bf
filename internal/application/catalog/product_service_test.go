package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type catalogEnv struct {
	db           *gorm.DB
	products     *appcatalog.ProductService
	categories   *appcatalog.CategoryService
	categoryRepo catalog.CategoryRepository
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&partner.Supplier{},
		&catalog.Category{},
		&catalog.Product{},
	))

	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)

	return &catalogEnv{
		db:           db,
		products:     appcatalog.NewProductService(productRepo, categoryRepo, supplierRepo, zap.NewNop()),
		categories:   appcatalog.NewCategoryService(categoryRepo),
		categoryRepo: categoryRepo,
	}
}

func (e *catalogEnv) supplier(t *testing.T, name string) (*partner.Supplier, *identity.User) {
	t.Helper()

	owner, err := identity.NewUser("owner_"+name, name+"@example.com", "password123", identity.UserTypeSupplier)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(owner).Error)

	supplier, err := partner.NewSupplier(owner.ID, name)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(supplier).Error)
	return supplier, owner
}

func (e *catalogEnv) category(t *testing.T, name string) *catalog.Category {
	t.Helper()

	category, err := e.categoryRepo.GetOrCreateByName(context.Background(), name)
	require.NoError(t, err)
	return category
}

func TestProductService_CreateAndGet(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")
	tools := env.category(t, "Tools")
	ctx := context.Background()

	created, err := env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		SKU:             "HAM-1",
		Name:            "Hammer",
		Description:     "A solid claw hammer",
		Price:           decimal.NewFromFloat(9.99),
		Stock:           5,
		CategoryID:      &tools.ID,
		Characteristics: map[string]string{"color": "black"},
	})
	require.NoError(t, err)
	assert.Equal(t, "HAM-1", created.SKU)
	assert.Equal(t, 5, created.Stock)
	assert.True(t, created.IsActive)

	fetched, err := env.products.GetPublic(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", fetched.Name)
	assert.Equal(t, "black", fetched.Characteristics["color"])
	require.NotNil(t, fetched.CategoryID)
	assert.Equal(t, tools.ID, *fetched.CategoryID)
}

func TestProductService_CreateRejectsTakenSKU(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")
	ctx := context.Background()

	_, err := env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		SKU: "HAM-1", Name: "Hammer", Price: decimal.NewFromFloat(9.99),
	})
	require.NoError(t, err)

	_, err = env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		SKU: "HAM-1", Name: "Other Hammer", Price: decimal.NewFromFloat(8.88),
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SKU_TAKEN", domainErr.Code)
}

func TestProductService_CreateUnknownCategory(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")

	missing := uuid.New()
	_, err := env.products.Create(context.Background(), owner.ID, appcatalog.CreateProductRequest{
		Name: "Hammer", Price: decimal.NewFromFloat(9.99), CategoryID: &missing,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_GetPublicHidesInactive(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")
	ctx := context.Background()

	created, err := env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		Name: "Hammer", Price: decimal.NewFromFloat(9.99),
	})
	require.NoError(t, err)

	inactive := false
	_, err = env.products.Update(ctx, owner.ID, created.ID, appcatalog.UpdateProductRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.products.GetPublic(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_ListPublicFilters(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")
	tools := env.category(t, "Tools")
	ctx := context.Background()

	_, err := env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		Name: "Hammer", Price: decimal.NewFromFloat(9.99), Stock: 5, CategoryID: &tools.ID,
	})
	require.NoError(t, err)
	_, err = env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		Name: "Garden Rake", Price: decimal.NewFromFloat(24.90), Stock: 0,
	})
	require.NoError(t, err)

	t.Run("search", func(t *testing.T) {
		result, err := env.products.ListPublic(ctx, appcatalog.ProductListFilter{Search: "rake"})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Garden Rake", result.Items[0].Name)
	})

	t.Run("category filter", func(t *testing.T) {
		result, err := env.products.ListPublic(ctx, appcatalog.ProductListFilter{CategoryID: tools.ID.String()})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Hammer", result.Items[0].Name)
	})

	t.Run("price range", func(t *testing.T) {
		min := 10.0
		result, err := env.products.ListPublic(ctx, appcatalog.ProductListFilter{MinPrice: &min})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Garden Rake", result.Items[0].Name)
	})

	t.Run("in stock only", func(t *testing.T) {
		result, err := env.products.ListPublic(ctx, appcatalog.ProductListFilter{InStock: true})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Hammer", result.Items[0].Name)
	})

	t.Run("price ordering", func(t *testing.T) {
		result, err := env.products.ListPublic(ctx, appcatalog.ProductListFilter{OrderBy: "price", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "Hammer", result.Items[0].Name)
		assert.Equal(t, int64(2), result.Total)
	})
}

func TestProductService_UpdateOwnershipEnforced(t *testing.T) {
	env := newCatalogEnv(t)
	_, ownerA := env.supplier(t, "acme")
	_, ownerB := env.supplier(t, "globex")
	ctx := context.Background()

	created, err := env.products.Create(ctx, ownerA.ID, appcatalog.CreateProductRequest{
		Name: "Hammer", Price: decimal.NewFromFloat(9.99),
	})
	require.NoError(t, err)

	newName := "Stolen Hammer"
	_, err = env.products.Update(ctx, ownerB.ID, created.ID, appcatalog.UpdateProductRequest{Name: &newName})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")
	ctx := context.Background()

	created, err := env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		Name: "Hammer", Price: decimal.NewFromFloat(9.99),
	})
	require.NoError(t, err)

	require.NoError(t, env.products.Delete(ctx, owner.ID, created.ID))

	_, err = env.products.GetPublic(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_BulkUpdatePrices(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")
	_, other := env.supplier(t, "globex")
	ctx := context.Background()

	hammer, err := env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		Name: "Hammer", Price: decimal.NewFromFloat(9.99),
	})
	require.NoError(t, err)
	foreign, err := env.products.Create(ctx, other.ID, appcatalog.CreateProductRequest{
		Name: "Wrench", Price: decimal.NewFromFloat(4.99),
	})
	require.NoError(t, err)

	result, err := env.products.BulkUpdatePrices(ctx, owner.ID, appcatalog.BulkPriceUpdateRequest{
		Items: []appcatalog.PriceUpdate{
			{ProductID: hammer.ID, Price: decimal.NewFromFloat(12.50)},
			{ProductID: foreign.ID, Price: decimal.NewFromFloat(1.00)},
			{ProductID: uuid.New(), Price: decimal.NewFromFloat(2.00)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, result.Errors, 2)

	updated, err := env.products.GetPublic(ctx, hammer.ID)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromFloat(12.50)))

	// other supplier's price untouched
	kept, err := env.products.GetPublic(ctx, foreign.ID)
	require.NoError(t, err)
	assert.True(t, kept.Price.Equal(decimal.NewFromFloat(4.99)))
}

func TestProductService_ListForSupplierIncludesInactive(t *testing.T) {
	env := newCatalogEnv(t)
	_, owner := env.supplier(t, "acme")
	ctx := context.Background()

	created, err := env.products.Create(ctx, owner.ID, appcatalog.CreateProductRequest{
		Name: "Hammer", Price: decimal.NewFromFloat(9.99),
	})
	require.NoError(t, err)

	inactive := false
	_, err = env.products.Update(ctx, owner.ID, created.ID, appcatalog.UpdateProductRequest{IsActive: &inactive})
	require.NoError(t, err)

	result, err := env.products.ListForSupplier(ctx, owner.ID, appcatalog.ProductListFilter{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.False(t, result.Items[0].IsActive)
}

func TestCategoryService_List(t *testing.T) {
	env := newCatalogEnv(t)
	env.category(t, "Tools")
	env.category(t, "Garden")

	categories, err := env.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Garden", categories[0].Name)
	assert.Equal(t, "Tools", categories[1].Name)
}
