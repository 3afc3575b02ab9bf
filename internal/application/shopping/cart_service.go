package shopping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shopping"
)

// CartService handles the shopping cart. Stock is not reserved by
// carting a product; availability is checked again at checkout.
type CartService struct {
	cartRepo    shopping.CartItemRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo shopping.CartItemRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// List returns the user's cart with current product data
func (s *CartService) List(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, len(items))
	for i := range items {
		productIDs[i] = items[i].ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	response := &CartResponse{
		Items: make([]CartLineResponse, 0, len(items)),
		Total: decimal.Zero,
	}
	for i := range items {
		line := CartLineResponse{
			ID:        items[i].ID,
			ProductID: items[i].ProductID,
			Quantity:  items[i].Quantity,
			CreatedAt: items[i].CreatedAt,
		}
		if product, ok := byID[items[i].ProductID]; ok {
			line.ProductName = product.Name
			line.UnitPrice = product.Price
			line.Amount = product.Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
			line.Available = product.Stock
			line.IsActive = product.IsActive
			response.Total = response.Total.Add(line.Amount)
		}
		response.Items = append(response.Items, line)
	}

	return response, nil
}

// Add puts a product into the cart; an existing line for the same
// product has its quantity increased instead
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, req.ProductID)
	switch {
	case err == nil:
		if err := existing.AddQuantity(req.Quantity); err != nil {
			return nil, err
		}
		if err := s.cartRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		item, err := shopping.NewCartItem(userID, req.ProductID, req.Quantity)
		if err != nil {
			return nil, err
		}
		if err := s.cartRepo.Save(ctx, item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.List(ctx, userID)
}

// UpdateQuantity sets a cart line's quantity
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, shared.ErrForbidden
	}

	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return s.List(ctx, userID)
}

// Remove deletes a cart line
func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return shared.ErrForbidden
	}

	return s.cartRepo.Delete(ctx, item.ID)
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}
