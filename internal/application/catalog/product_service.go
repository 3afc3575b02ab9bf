package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductService handles public catalog browsing and supplier-side
// product management
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// ListPublic lists active products for the storefront
func (s *ProductService) ListPublic(ctx context.Context, filter ProductListFilter) (*ProductListResult, error) {
	domainFilter := buildProductFilter(filter)

	products, err := s.productRepo.FindActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	return &ProductListResult{Items: toProductResponses(products), Total: total}, nil
}

// GetPublic returns one active product. Inactive products are not
// exposed on the storefront.
func (s *ProductService) GetPublic(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.ErrNotFound
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// ListForSupplier lists the calling supplier's own products, active or not
func (s *ProductService) ListForSupplier(ctx context.Context, supplierUserID uuid.UUID, filter ProductListFilter) (*ProductListResult, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindBySupplier(ctx, supplier.ID, buildProductFilter(filter))
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountBySupplier(ctx, supplier.ID)
	if err != nil {
		return nil, err
	}

	return &ProductListResult{Items: toProductResponses(products), Total: total}, nil
}

// Create creates a product owned by the calling supplier
func (s *ProductService) Create(ctx context.Context, supplierUserID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(supplier.ID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.SKU != "" {
		if err := s.checkSKUAvailable(ctx, req.SKU, uuid.Nil); err != nil {
			return nil, err
		}
		if err := product.SetSKU(req.SKU); err != nil {
			return nil, err
		}
	}
	if req.Stock > 0 {
		if err := product.SetStock(req.Stock); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if len(req.Characteristics) > 0 {
		product.SetCharacteristics(catalog.Characteristics(req.Characteristics))
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("supplier_id", supplier.ID.String()))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update updates a product owned by the calling supplier
func (s *ProductService) Update(ctx context.Context, supplierUserID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForSupplier(ctx, supplier.ID, productID)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if req.SKU != nil && *req.SKU != product.SKU {
		if *req.SKU != "" {
			if err := s.checkSKUAvailable(ctx, *req.SKU, product.ID); err != nil {
				return nil, err
			}
		}
		if err := product.SetSKU(*req.SKU); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := product.UpdatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.Characteristics != nil {
		product.SetCharacteristics(catalog.Characteristics(*req.Characteristics))
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product owned by the calling supplier
func (s *ProductService) Delete(ctx context.Context, supplierUserID, productID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return err
	}
	product, err := s.productRepo.FindByIDForSupplier(ctx, supplier.ID, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}

	s.logger.Info("product deleted",
		zap.String("product_id", product.ID.String()),
		zap.String("supplier_id", supplier.ID.String()))

	return nil
}

// BulkUpdatePrices applies price changes to several of the supplier's
// products. Invalid lines are recorded and the rest proceed.
func (s *ProductService) BulkUpdatePrices(ctx context.Context, supplierUserID uuid.UUID, req BulkPriceUpdateRequest) (*BulkPriceUpdateResult, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}

	result := &BulkPriceUpdateResult{Errors: []PriceUpdateError{}}
	for _, item := range req.Items {
		product, err := s.productRepo.FindByIDForSupplier(ctx, supplier.ID, item.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				result.Errors = append(result.Errors, PriceUpdateError{ProductID: item.ProductID, Message: "product not found"})
				continue
			}
			return nil, err
		}
		if err := product.UpdatePrice(item.Price); err != nil {
			result.Errors = append(result.Errors, PriceUpdateError{ProductID: item.ProductID, Message: err.Error()})
			continue
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return nil, err
		}
		result.Updated++
	}

	s.logger.Info("bulk price update applied",
		zap.String("supplier_id", supplier.ID.String()),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// checkSKUAvailable rejects a SKU already used by a different product
func (s *ProductService) checkSKUAvailable(ctx context.Context, sku string, selfID uuid.UUID) error {
	existing, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return shared.NewDomainError("SKU_TAKEN", "SKU is already in use")
}

func buildProductFilter(filter ProductListFilter) shared.Filter {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.CategoryID != "" {
		domainFilter.Filters["category_id"] = filter.CategoryID
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = *filter.MaxPrice
	}
	if filter.InStock {
		domainFilter.Filters["in_stock"] = true
	}
	return domainFilter
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
