package catalogsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// ExportService builds catalog documents for a supplier's products
type ExportService struct {
	supplierRepo partner.SupplierRepository
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	exportCfg    config.ExportConfig
	logger       *zap.Logger
}

// NewExportService creates a new catalog export service
func NewExportService(
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	exportCfg config.ExportConfig,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		exportCfg:    exportCfg,
		logger:       logger,
	}
}

// BuildDocument assembles the catalog document for the supplier owned by
// the given user. Every product of the supplier is included, active or
// not; the document reflects the catalog as stored.
func (s *ExportService) BuildDocument(ctx context.Context, supplierUserID uuid.UUID) (*CatalogDocument, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindBySupplier(ctx, supplier.ID, shared.Filter{OrderBy: "created_at", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	categories, localIDs, err := s.resolveCategories(ctx, products)
	if err != nil {
		return nil, err
	}

	doc := &CatalogDocument{
		Shop:       supplier.Name,
		Categories: categories,
		Goods:      make([]GoodsEntry, 0, len(products)),
	}

	for i := range products {
		doc.Goods = append(doc.Goods, goodsEntry(&products[i], localIDs))
	}

	return doc, nil
}

// ExportYAML builds the supplier's catalog document and encodes it
func (s *ExportService) ExportYAML(ctx context.Context, supplierUserID uuid.UUID) ([]byte, error) {
	doc, err := s.BuildDocument(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}
	return doc.Marshal()
}

// ExportToFile writes the supplier's catalog to a YAML file and returns
// the path. When the configured export directory is unwritable the file
// goes to the fallback directory instead.
func (s *ExportService) ExportToFile(ctx context.Context, supplierUserID uuid.UUID) (string, error) {
	doc, err := s.BuildDocument(ctx, supplierUserID)
	if err != nil {
		return "", err
	}

	data, err := doc.Marshal()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("catalog_%s_%s.yaml", slugify(doc.Shop), time.Now().UTC().Format("20060102T150405"))

	path, writeErr := writeExportFile(s.exportCfg.Dir, name, data)
	if writeErr == nil {
		return path, nil
	}

	fallback := s.exportCfg.FallbackDir
	if fallback == "" {
		fallback = os.TempDir()
	}

	s.logger.Warn("export directory unwritable, using fallback",
		zap.String("dir", s.exportCfg.Dir),
		zap.String("fallback", fallback),
		zap.Error(writeErr))

	path, err = writeExportFile(fallback, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to write catalog export: %w", err)
	}
	return path, nil
}

// resolveCategories loads the categories referenced by the products and
// assigns document-local ids, ordered by category name for stable output.
func (s *ExportService) resolveCategories(ctx context.Context, products []catalog.Product) ([]CategoryEntry, map[uuid.UUID]int, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range products {
		if products[i].CategoryID == nil {
			continue
		}
		id := *products[i].CategoryID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return []CategoryEntry{}, map[uuid.UUID]int{}, nil
	}

	categories, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	entries := make([]CategoryEntry, 0, len(categories))
	localIDs := make(map[uuid.UUID]int, len(categories))
	for i := range categories {
		local := i + 1
		entries = append(entries, CategoryEntry{ID: local, Name: categories[i].Name})
		localIDs[categories[i].ID] = local
	}

	return entries, localIDs, nil
}

func goodsEntry(product *catalog.Product, localIDs map[uuid.UUID]int) GoodsEntry {
	entry := GoodsEntry{
		ID:       FlexibleID(product.ExternalID()),
		Name:     product.Name,
		Quantity: product.Stock,
	}

	price := product.Price.InexactFloat64()
	entry.Price = &price

	if product.CategoryID != nil {
		if local, ok := localIDs[*product.CategoryID]; ok {
			entry.Category = &local
		}
	}

	params := make(map[string]any, len(product.Characteristics)+1)
	for k, v := range product.Characteristics {
		params[k] = v
	}
	if product.Description != "" {
		params[descriptionParameter] = product.Description
	}
	if len(params) > 0 {
		entry.Parameters = params
	}

	return entry
}

func writeExportFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "catalog"
	}
	return b.String()
}
