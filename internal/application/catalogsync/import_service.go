package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
)

// descriptionParameter is the reserved parameters key that carries the
// product description instead of a characteristic
const descriptionParameter = "description"

// EntryError describes why a single goods entry was not imported
type EntryError struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// ImportResult summarizes a catalog import run
type ImportResult struct {
	TotalEntries int          `json:"total_entries"`
	Created      int          `json:"created"`
	Updated      int          `json:"updated"`
	Errors       []EntryError `json:"errors,omitempty"`
}

// ImportService applies supplier catalog documents to the product
// catalog. A structurally invalid document fails as a whole; invalid
// goods entries are recorded and skipped while the rest of the batch
// proceeds. The whole import runs in one transaction.
type ImportService struct {
	supplierRepo partner.SupplierRepository
	scope        TransactionScope
	logger       *zap.Logger
}

// NewImportService creates a new catalog import service
func NewImportService(supplierRepo partner.SupplierRepository, scope TransactionScope, logger *zap.Logger) *ImportService {
	return &ImportService{
		supplierRepo: supplierRepo,
		scope:        scope,
		logger:       logger,
	}
}

// ImportYAML parses and imports a catalog document for the supplier
// owned by the given user
func (s *ImportService) ImportYAML(ctx context.Context, supplierUserID uuid.UUID, data []byte) (*ImportResult, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return s.ImportDocument(ctx, supplierUserID, doc)
}

// ImportDocument imports an already parsed catalog document
func (s *ImportService) ImportDocument(ctx context.Context, supplierUserID uuid.UUID, doc *CatalogDocument) (*ImportResult, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		TotalEntries: len(doc.Goods),
		Errors:       []EntryError{},
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		categories, err := s.resolveCategories(ctx, repos.Categories(), doc)
		if err != nil {
			return err
		}

		for i := range doc.Goods {
			if err := s.importEntry(ctx, repos.Products(), supplier, doc, i, categories, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog import finished",
		zap.String("supplier_id", supplier.ID.String()),
		zap.Int("total", result.TotalEntries),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// resolveCategories maps document-local category ids to stored category
// ids, creating categories by name as needed. Duplicate names in the
// document collapse to one stored category.
func (s *ImportService) resolveCategories(ctx context.Context, repo catalog.CategoryRepository, doc *CatalogDocument) (map[int]uuid.UUID, error) {
	resolved := make(map[int]uuid.UUID, len(doc.Categories))
	byName := make(map[string]uuid.UUID, len(doc.Categories))

	for _, entry := range doc.Categories {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		if id, ok := byName[name]; ok {
			resolved[entry.ID] = id
			continue
		}
		category, err := repo.GetOrCreateByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
		}
		byName[name] = category.ID
		resolved[entry.ID] = category.ID
	}

	return resolved, nil
}

func (s *ImportService) importEntry(
	ctx context.Context,
	products catalog.ProductRepository,
	supplier *partner.Supplier,
	doc *CatalogDocument,
	index int,
	categories map[int]uuid.UUID,
	result *ImportResult,
) error {
	entry := &doc.Goods[index]

	fail := func(message string) {
		result.Errors = append(result.Errors, EntryError{
			Index:   index,
			ID:      entry.ID.String(),
			Name:    entry.Name,
			Message: message,
		})
	}

	if strings.TrimSpace(entry.Name) == "" {
		fail("name is required")
		return nil
	}
	if entry.Price == nil {
		fail("price is required")
		return nil
	}
	price := decimal.NewFromFloat(*entry.Price)
	if price.IsNegative() {
		fail("price cannot be negative")
		return nil
	}
	if entry.Quantity < 0 {
		fail("quantity cannot be negative")
		return nil
	}

	var categoryID *uuid.UUID
	if entry.Category != nil {
		id, ok := categories[*entry.Category]
		if !ok {
			fail(fmt.Sprintf("unknown category reference %d", *entry.Category))
			return nil
		}
		categoryID = &id
	}

	sku := strings.TrimSpace(entry.ID.String())
	description := entryDescription(entry.Parameters)
	characteristics := entryCharacteristics(entry.Parameters)

	var product *catalog.Product
	created := false

	if sku != "" {
		existing, err := products.FindBySKU(ctx, sku)
		switch {
		case err == nil:
			if existing.SupplierID != supplier.ID {
				fail(fmt.Sprintf("sku %q belongs to another supplier", sku))
				return nil
			}
			product = existing
		case errors.Is(err, shared.ErrNotFound):
		default:
			return err
		}
	}

	if product == nil {
		newProduct, err := catalog.NewProduct(supplier.ID, entry.Name, price)
		if err != nil {
			fail(err.Error())
			return nil
		}
		if sku != "" {
			if err := newProduct.SetSKU(sku); err != nil {
				fail(err.Error())
				return nil
			}
		}
		product = newProduct
		created = true
	}

	if err := product.Update(entry.Name, description); err != nil {
		fail(err.Error())
		return nil
	}
	if err := product.UpdatePrice(price); err != nil {
		fail(err.Error())
		return nil
	}
	if err := product.SetStock(entry.Quantity); err != nil {
		fail(err.Error())
		return nil
	}
	product.SetCategory(categoryID)
	product.SetCharacteristics(characteristics)
	product.Activate()

	if err := products.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product %q: %w", entry.Name, err)
	}

	if created {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

// entryDescription derives the product description from the parameters
// bag. A "description" key wins; otherwise the parameters are rendered
// as "key: value" lines.
func entryDescription(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	if v, ok := params[descriptionParameter]; ok {
		return parameterString(v)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, parameterString(params[k])))
	}
	return strings.Join(lines, "\n")
}

func entryCharacteristics(params map[string]any) catalog.Characteristics {
	characteristics := make(catalog.Characteristics, len(params))
	for k, v := range params {
		if k == descriptionParameter {
			continue
		}
		characteristics[k] = parameterString(v)
	}
	return characteristics
}

func parameterString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
