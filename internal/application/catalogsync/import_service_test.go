package catalogsync_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/catalogsync"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type syncEnv struct {
	db           *gorm.DB
	importSvc    *catalogsync.ImportService
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
}

func newSyncEnv(t *testing.T) *syncEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&partner.Supplier{},
		&catalog.Category{},
		&catalog.Product{},
	))

	env := &syncEnv{
		db:           db,
		productRepo:  persistence.NewGormProductRepository(db),
		categoryRepo: persistence.NewGormCategoryRepository(db),
		supplierRepo: persistence.NewGormSupplierRepository(db),
	}
	scope := persistence.NewGormCatalogTransactionScope(db)
	env.importSvc = catalogsync.NewImportService(env.supplierRepo, scope, zap.NewNop())

	return env
}

func (e *syncEnv) exportService(t *testing.T, cfg config.ExportConfig) *catalogsync.ExportService {
	t.Helper()
	return catalogsync.NewExportService(e.supplierRepo, e.productRepo, e.categoryRepo, cfg, zap.NewNop())
}

func (e *syncEnv) supplier(t *testing.T, name string) (*partner.Supplier, *identity.User) {
	t.Helper()

	owner, err := identity.NewUser("owner_"+name, name+"@example.com", "password123", identity.UserTypeSupplier)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(owner).Error)

	supplier, err := partner.NewSupplier(owner.ID, name)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(supplier).Error)
	return supplier, owner
}

func (e *syncEnv) productsOf(t *testing.T, supplierID uuid.UUID) []catalog.Product {
	t.Helper()

	products, err := e.productRepo.FindBySupplier(context.Background(), supplierID, shared.Filter{})
	require.NoError(t, err)
	return products
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestParseDocument(t *testing.T) {
	t.Run("accepts numeric and string goods ids", func(t *testing.T) {
		doc, err := catalogsync.ParseDocument([]byte(`
shop: acme
categories:
  - id: 1
    name: Tools
goods:
  - id: 1042
    name: Hammer
    price: 9.99
    category: 1
    quantity: 5
  - id: SKU-7
    name: Wrench
    price: 14.5
    quantity: 2
`))
		require.NoError(t, err)
		require.Len(t, doc.Goods, 2)
		assert.Equal(t, "1042", doc.Goods[0].ID.String())
		assert.Equal(t, "SKU-7", doc.Goods[1].ID.String())
		require.NotNil(t, doc.Goods[0].Category)
		assert.Equal(t, 1, *doc.Goods[0].Category)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := catalogsync.ParseDocument([]byte("shop: acme\nwarehouse: main\n"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := catalogsync.ParseDocument([]byte("shop: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("missing price decodes as nil", func(t *testing.T) {
		doc, err := catalogsync.ParseDocument([]byte("goods:\n  - name: Hammer\n    quantity: 1\n"))
		require.NoError(t, err)
		require.Len(t, doc.Goods, 1)
		assert.Nil(t, doc.Goods[0].Price)
	})
}

func TestImportDocument_CreatesProductsAndCategories(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")
	ctx := context.Background()

	doc := &catalogsync.CatalogDocument{
		Shop: "acme",
		Categories: []catalogsync.CategoryEntry{
			{ID: 1, Name: "Tools"},
			{ID: 2, Name: "Garden"},
		},
		Goods: []catalogsync.GoodsEntry{
			{
				ID:       "HAM-1",
				Name:     "Hammer",
				Price:    floatPtr(9.99),
				Category: intPtr(1),
				Quantity: 5,
				Parameters: map[string]any{
					"description": "A solid claw hammer",
					"color":       "black",
					"weight":      600,
				},
			},
			{
				Name:     "Rake",
				Price:    floatPtr(14.50),
				Category: intPtr(2),
				Quantity: 3,
			},
		},
	}

	result, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalEntries)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)

	hammer, err := env.productRepo.FindBySKU(ctx, "HAM-1")
	require.NoError(t, err)
	assert.Equal(t, "Hammer", hammer.Name)
	assert.Equal(t, "A solid claw hammer", hammer.Description)
	assert.True(t, hammer.Price.Equal(decimal.NewFromFloat(9.99)))
	assert.Equal(t, 5, hammer.Stock)
	assert.Equal(t, supplier.ID, hammer.SupplierID)
	assert.True(t, hammer.IsActive)
	assert.Equal(t, catalog.Characteristics{"color": "black", "weight": "600"}, hammer.Characteristics)

	tools, err := env.categoryRepo.FindByName(ctx, "Tools")
	require.NoError(t, err)
	require.NotNil(t, hammer.CategoryID)
	assert.Equal(t, tools.ID, *hammer.CategoryID)

	products := env.productsOf(t, supplier.ID)
	assert.Len(t, products, 2)
}

func TestImportDocument_DescriptionSynthesizedFromParameters(t *testing.T) {
	env := newSyncEnv(t)
	_, owner := env.supplier(t, "acme")

	doc := &catalogsync.CatalogDocument{
		Goods: []catalogsync.GoodsEntry{
			{
				ID:       "DRL-1",
				Name:     "Drill",
				Price:    floatPtr(59.90),
				Quantity: 2,
				Parameters: map[string]any{
					"voltage": "18V",
					"brand":   "Makita",
				},
			},
		},
	}

	_, err := env.importSvc.ImportDocument(context.Background(), owner.ID, doc)
	require.NoError(t, err)

	drill, err := env.productRepo.FindBySKU(context.Background(), "DRL-1")
	require.NoError(t, err)
	assert.Equal(t, "brand: Makita\nvoltage: 18V", drill.Description)
	assert.Equal(t, catalog.Characteristics{"voltage": "18V", "brand": "Makita"}, drill.Characteristics)
}

func TestImportDocument_InvalidEntriesAreRecordedAndSkipped(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")

	doc := &catalogsync.CatalogDocument{
		Categories: []catalogsync.CategoryEntry{{ID: 1, Name: "Tools"}},
		Goods: []catalogsync.GoodsEntry{
			{ID: "A-1", Name: "Hammer", Price: floatPtr(9.99), Quantity: 5},
			{ID: "A-2", Name: "Wrench", Quantity: 3},
			{ID: "A-3", Price: floatPtr(4.20), Quantity: 1},
			{ID: "A-4", Name: "Saw", Price: floatPtr(-1), Quantity: 1},
			{ID: "A-5", Name: "Pliers", Price: floatPtr(7.50), Category: intPtr(9), Quantity: 1},
		},
	}

	result, err := env.importSvc.ImportDocument(context.Background(), owner.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalEntries)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 4)

	messages := make(map[string]string, len(result.Errors))
	for _, e := range result.Errors {
		messages[e.ID] = e.Message
	}
	assert.Equal(t, "price is required", messages["A-2"])
	assert.Equal(t, "name is required", messages["A-3"])
	assert.Equal(t, "price cannot be negative", messages["A-4"])
	assert.Equal(t, "unknown category reference 9", messages["A-5"])

	assert.Len(t, env.productsOf(t, supplier.ID), 1)
}

func TestImportDocument_UpsertBySKUIsIdempotent(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")
	ctx := context.Background()

	doc := &catalogsync.CatalogDocument{
		Categories: []catalogsync.CategoryEntry{{ID: 1, Name: "Tools"}},
		Goods: []catalogsync.GoodsEntry{
			{ID: "HAM-1", Name: "Hammer", Price: floatPtr(9.99), Category: intPtr(1), Quantity: 5},
			{ID: "WRN-1", Name: "Wrench", Price: floatPtr(14.50), Category: intPtr(1), Quantity: 2},
		},
	}

	first, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 0, first.Updated)

	second, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)
	assert.Empty(t, second.Errors)

	assert.Len(t, env.productsOf(t, supplier.ID), 2)
}

func TestImportDocument_UpsertOverwritesExistingFields(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")
	ctx := context.Background()

	existing, err := catalog.NewProduct(supplier.ID, "Old Hammer", decimal.NewFromFloat(5))
	require.NoError(t, err)
	require.NoError(t, existing.SetSKU("HAM-1"))
	require.NoError(t, existing.SetStock(1))
	existing.Deactivate()
	require.NoError(t, env.db.Create(existing).Error)

	doc := &catalogsync.CatalogDocument{
		Goods: []catalogsync.GoodsEntry{
			{
				ID:         "HAM-1",
				Name:       "Hammer Pro",
				Price:      floatPtr(12.30),
				Quantity:   8,
				Parameters: map[string]any{"description": "Improved model"},
			},
		},
	}

	result, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	updated, err := env.productRepo.FindBySKU(ctx, "HAM-1")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, "Hammer Pro", updated.Name)
	assert.Equal(t, "Improved model", updated.Description)
	assert.True(t, updated.Price.Equal(decimal.NewFromFloat(12.30)))
	assert.Equal(t, 8, updated.Stock)
	assert.True(t, updated.IsActive)
}

func TestImportDocument_SKUOwnedByAnotherSupplierIsRejected(t *testing.T) {
	env := newSyncEnv(t)
	other, _ := env.supplier(t, "globex")
	_, owner := env.supplier(t, "acme")
	ctx := context.Background()

	foreign, err := catalog.NewProduct(other.ID, "Hammer", decimal.NewFromFloat(9.99))
	require.NoError(t, err)
	require.NoError(t, foreign.SetSKU("HAM-1"))
	require.NoError(t, env.db.Create(foreign).Error)

	doc := &catalogsync.CatalogDocument{
		Goods: []catalogsync.GoodsEntry{
			{ID: "HAM-1", Name: "Hammer", Price: floatPtr(8.88), Quantity: 1},
		},
	}

	result, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "belongs to another supplier")

	kept, err := env.productRepo.FindBySKU(ctx, "HAM-1")
	require.NoError(t, err)
	assert.Equal(t, other.ID, kept.SupplierID)
	assert.True(t, kept.Price.Equal(decimal.NewFromFloat(9.99)))
}

func TestImportDocument_EmptySKUAlwaysCreates(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")
	ctx := context.Background()

	doc := &catalogsync.CatalogDocument{
		Goods: []catalogsync.GoodsEntry{
			{Name: "Loose Bolt", Price: floatPtr(0.50), Quantity: 100},
		},
	}

	for i := 0; i < 2; i++ {
		result, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 0, result.Updated)
	}

	assert.Len(t, env.productsOf(t, supplier.ID), 2)
}

func TestImportDocument_DuplicateCategoryNamesCollapse(t *testing.T) {
	env := newSyncEnv(t)
	_, owner := env.supplier(t, "acme")
	ctx := context.Background()

	doc := &catalogsync.CatalogDocument{
		Categories: []catalogsync.CategoryEntry{
			{ID: 1, Name: "Tools"},
			{ID: 2, Name: "Tools"},
		},
		Goods: []catalogsync.GoodsEntry{
			{ID: "A-1", Name: "Hammer", Price: floatPtr(9.99), Category: intPtr(1), Quantity: 1},
			{ID: "A-2", Name: "Wrench", Price: floatPtr(4.99), Category: intPtr(2), Quantity: 1},
		},
	}

	_, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
	require.NoError(t, err)

	categories, err := env.categoryRepo.FindAll(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	hammer, err := env.productRepo.FindBySKU(ctx, "A-1")
	require.NoError(t, err)
	wrench, err := env.productRepo.FindBySKU(ctx, "A-2")
	require.NoError(t, err)
	require.NotNil(t, hammer.CategoryID)
	require.NotNil(t, wrench.CategoryID)
	assert.Equal(t, *hammer.CategoryID, *wrench.CategoryID)
}

func TestImportYAML_StructuralErrorFailsWhole(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")

	_, err := env.importSvc.ImportYAML(context.Background(), owner.ID, []byte("goods: {not: a list}"))
	assert.Error(t, err)
	assert.Empty(t, env.productsOf(t, supplier.ID))
}

func TestImportDocument_UnknownSupplierUser(t *testing.T) {
	env := newSyncEnv(t)

	_, err := env.importSvc.ImportDocument(context.Background(), uuid.New(), &catalogsync.CatalogDocument{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestExportBuildDocument(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")
	ctx := context.Background()

	tools, err := env.categoryRepo.GetOrCreateByName(ctx, "Tools")
	require.NoError(t, err)
	garden, err := env.categoryRepo.GetOrCreateByName(ctx, "Garden")
	require.NoError(t, err)

	hammer, err := catalog.NewProduct(supplier.ID, "Hammer", decimal.NewFromFloat(9.99))
	require.NoError(t, err)
	require.NoError(t, hammer.SetSKU("HAM-1"))
	require.NoError(t, hammer.SetStock(5))
	require.NoError(t, hammer.Update("Hammer", "A solid claw hammer"))
	hammer.SetCategory(&tools.ID)
	hammer.SetCharacteristics(catalog.Characteristics{"color": "black"})
	require.NoError(t, env.db.Create(hammer).Error)

	rake, err := catalog.NewProduct(supplier.ID, "Rake", decimal.NewFromFloat(14.50))
	require.NoError(t, err)
	require.NoError(t, rake.SetStock(3))
	rake.SetCategory(&garden.ID)
	require.NoError(t, env.db.Create(rake).Error)

	svc := env.exportService(t, config.ExportConfig{Dir: t.TempDir()})
	doc, err := svc.BuildDocument(ctx, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "acme", doc.Shop)
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, "Garden", doc.Categories[0].Name)
	assert.Equal(t, "Tools", doc.Categories[1].Name)

	require.Len(t, doc.Goods, 2)
	first := doc.Goods[0]
	assert.Equal(t, "HAM-1", first.ID.String())
	assert.Equal(t, "Hammer", first.Name)
	require.NotNil(t, first.Price)
	assert.InDelta(t, 9.99, *first.Price, 0.001)
	assert.Equal(t, 5, first.Quantity)
	require.NotNil(t, first.Category)
	assert.Equal(t, 2, *first.Category)
	assert.Equal(t, "A solid claw hammer", first.Parameters["description"])
	assert.Equal(t, "black", first.Parameters["color"])

	second := doc.Goods[1]
	assert.Equal(t, rake.ID.String(), second.ID.String())
	require.NotNil(t, second.Category)
	assert.Equal(t, 1, *second.Category)
}

func TestExportImportRoundTripIsIdempotent(t *testing.T) {
	env := newSyncEnv(t)
	supplier, owner := env.supplier(t, "acme")
	ctx := context.Background()

	doc := &catalogsync.CatalogDocument{
		Categories: []catalogsync.CategoryEntry{{ID: 1, Name: "Tools"}},
		Goods: []catalogsync.GoodsEntry{
			{
				ID:         "HAM-1",
				Name:       "Hammer",
				Price:      floatPtr(9.99),
				Category:   intPtr(1),
				Quantity:   5,
				Parameters: map[string]any{"description": "A solid claw hammer", "color": "black"},
			},
		},
	}

	_, err := env.importSvc.ImportDocument(ctx, owner.ID, doc)
	require.NoError(t, err)

	svc := env.exportService(t, config.ExportConfig{Dir: t.TempDir()})
	data, err := svc.ExportYAML(ctx, owner.ID)
	require.NoError(t, err)

	result, err := env.importSvc.ImportYAML(ctx, owner.ID, data)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)
	assert.Len(t, env.productsOf(t, supplier.ID), 1)
}

func TestExportToFileFallsBackWhenDirUnwritable(t *testing.T) {
	env := newSyncEnv(t)
	_, owner := env.supplier(t, "acme")
	ctx := context.Background()

	// A regular file in place of the export dir makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	fallback := t.TempDir()
	svc := env.exportService(t, config.ExportConfig{
		Dir:         filepath.Join(blocker, "exports"),
		FallbackDir: fallback,
	})

	path, err := svc.ExportToFile(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, fallback, filepath.Dir(path))
}
