package ordering

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/notification"
	"go.uber.org/zap"
)

// OrderService handles order queries, status transitions and cancellation
type OrderService struct {
	orderRepo    ordering.OrderRepository
	userRepo     identity.UserRepository
	supplierRepo partner.SupplierRepository
	scope        TransactionScope
	notifier     notification.Notifier
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	userRepo identity.UserRepository,
	supplierRepo partner.SupplierRepository,
	scope TransactionScope,
	notifier notification.Notifier,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		supplierRepo: supplierRepo,
		scope:        scope,
		notifier:     notifier,
		logger:       logger.Named("orders"),
	}
}

// ListForUser retrieves a user's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := buildOrderFilter(filter)

	orders, err := s.orderRepo.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// GetForUser retrieves a single order owned by the user
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order and returns its reserved stock in the same
// transaction. Only pending and processing orders can be cancelled.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	var order *ordering.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUser(ctx, userID, orderID)
		if err != nil {
			return err
		}

		if err := order.Cancel(); err != nil {
			return err
		}

		for _, item := range order.Items {
			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					// Product removed since the order was placed, nothing to restore
					s.logger.Warn("Skipping stock restore for deleted product",
						zap.String("product_id", item.ProductID.String()),
						zap.String("order_id", order.ID.String()),
					)
					continue
				}
				return err
			}
			if err := product.RestoreStock(item.Quantity); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}
		}

		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
	)

	if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
		s.notifier.OrderCancelled(ctx, notification.OrderCancelledData{
			Email:       user.Email,
			Username:    user.DisplayName(),
			OrderNumber: shortOrderNumber(order.ID),
		})
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListForSupplier retrieves orders containing the supplier's products.
// Each returned order carries only the supplier's own lines.
func (s *OrderService) ListForSupplier(ctx context.Context, supplierUserID uuid.UUID, filter OrderListFilter) ([]OrderResponse, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.FindBySupplier(ctx, supplier.ID, buildOrderFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		response := ToOrderResponse(&orders[i])

		own := make([]OrderItemResponse, 0, len(response.Items))
		for _, item := range response.Items {
			if item.SupplierID == supplier.ID {
				own = append(own, item)
			}
		}
		response.Items = own

		responses = append(responses, response)
	}
	return responses, nil
}

// UpdateStatus transitions an order on behalf of a supplier whose
// products are part of it. The order status machine rejects invalid
// transitions.
func (s *OrderService) UpdateStatus(ctx context.Context, supplierUserID, orderID uuid.UUID, target ordering.OrderStatus) (*OrderResponse, error) {
	supplier, err := s.supplierRepo.FindByUserID(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	owns := false
	for _, item := range order.Items {
		if item.SupplierID == supplier.ID {
			owns = true
			break
		}
	}
	if !owns {
		return nil, shared.ErrForbidden
	}

	if err := order.SetStatus(target); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", target.String()),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// buildOrderFilter converts the API filter to a domain filter
func buildOrderFilter(filter OrderListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}
