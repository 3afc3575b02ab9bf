package ordering

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shopping"
	"github.com/marketplace/backend/internal/infrastructure/notification"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutError reports the cart lines that prevented (or were excluded
// from) a checkout. It unwraps to shared.ErrInsufficientStock.
type CheckoutError struct {
	Lines []UnfulfillableLine
}

// Error implements the error interface
func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed: %d cart line(s) cannot be fulfilled", len(e.Lines))
}

// Unwrap lets errors.Is match shared.ErrInsufficientStock
func (e *CheckoutError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// CheckoutService turns a user's cart into an order. Stock validation,
// stock decrement, order creation and cart cleanup happen in one
// transaction; notifications go out only after the commit.
type CheckoutService struct {
	userRepo    identity.UserRepository
	addressRepo shopping.DeliveryAddressRepository
	scope       TransactionScope
	notifier    notification.Notifier
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	userRepo identity.UserRepository,
	addressRepo shopping.DeliveryAddressRepository,
	scope TransactionScope,
	notifier notification.Notifier,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
		scope:       scope,
		notifier:    notifier,
		logger:      logger.Named("checkout"),
	}
}

// supplierContact is captured inside the transaction for post-commit
// notifications
type supplierContact struct {
	name      string
	email     string
	accepting bool
}

// fulfillment pairs a cart line with the quantity checkout takes from it
type fulfillment struct {
	line shopping.CartItem
	qty  int
}

// Checkout creates an order from the user's cart.
//
// With AllowPartial false every cart line must be satisfiable or the
// whole checkout fails with a *CheckoutError listing each shortfall,
// and nothing is persisted. With AllowPartial true each line is
// fulfilled up to the available stock: fully fulfilled lines are
// removed from the cart, short lines are reduced by the fulfilled
// quantity and kept, and lines with nothing available stay untouched.
// Every shortfall is reported in the response. A cart with no
// fulfillable quantity at all fails either way.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DeliveryAddressID == nil {
		return nil, shared.ErrAddressRequired
	}
	address, err := s.addressRepo.FindByID(ctx, *req.DeliveryAddressID)
	if err != nil {
		return nil, err
	}
	if !address.BelongsTo(userID) {
		return nil, shared.ErrForbidden
	}

	var (
		order    *ordering.Order
		skipped  []UnfulfillableLine
		contacts map[uuid.UUID]supplierContact
	)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.CartItems().FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return shared.ErrEmptyCart
		}

		productIDs := make([]uuid.UUID, len(lines))
		for i, line := range lines {
			productIDs[i] = line.ProductID
		}
		products, err := repos.Products().FindByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		productByID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			productByID[products[i].ID] = &products[i]
		}

		contacts = make(map[uuid.UUID]supplierContact)
		var fulfillments []fulfillment
		skipped = nil

		for _, line := range lines {
			product, ok := productByID[line.ProductID]
			if !ok {
				skipped = append(skipped, UnfulfillableLine{
					ProductID: line.ProductID,
					Requested: line.Quantity,
					Reason:    ReasonProductMissing,
				})
				continue
			}
			if !product.IsActive {
				skipped = append(skipped, UnfulfillableLine{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
					Reason:      ReasonProductUnavailable,
				})
				continue
			}

			contact, err := s.supplierContact(ctx, repos, contacts, product.SupplierID)
			if err != nil {
				return err
			}
			if !contact.accepting {
				skipped = append(skipped, UnfulfillableLine{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
					Reason:      ReasonSupplierPaused,
				})
				continue
			}

			if product.Stock < line.Quantity {
				skipped = append(skipped, UnfulfillableLine{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
					Reason:      ReasonInsufficientStock,
				})
				if !req.AllowPartial || product.Stock == 0 {
					continue
				}
				// Partial mode takes whatever stock remains
				fulfillments = append(fulfillments, fulfillment{line: line, qty: product.Stock})
				continue
			}

			fulfillments = append(fulfillments, fulfillment{line: line, qty: line.Quantity})
		}

		if len(skipped) > 0 && !req.AllowPartial {
			return &CheckoutError{Lines: skipped}
		}
		if len(fulfillments) == 0 {
			return &CheckoutError{Lines: skipped}
		}

		order, err = ordering.NewOrder(userID, req.DeliveryAddressID)
		if err != nil {
			return err
		}

		for _, f := range fulfillments {
			product := productByID[f.line.ProductID]

			if err := product.DecreaseStock(f.qty); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}

			if _, err := order.AddItem(product.ID, product.SupplierID, product.Name, f.qty, product.Price); err != nil {
				return err
			}
		}

		if err := order.Place(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		for _, f := range fulfillments {
			if f.qty == f.line.Quantity {
				if err := repos.CartItems().Delete(ctx, f.line.ID); err != nil {
					return err
				}
				continue
			}

			line := f.line
			if err := line.ReduceQuantity(f.qty); err != nil {
				return err
			}
			if err := repos.CartItems().Save(ctx, &line); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
		zap.Int("skipped", len(skipped)),
	)

	s.notifyOrderPlaced(ctx, user, order, contacts)

	return &CheckoutResponse{
		Order:   ToOrderResponse(order),
		Skipped: skipped,
	}, nil
}

// supplierContact resolves and caches the supplier's display name,
// email and accepting flag for the duration of one checkout
func (s *CheckoutService) supplierContact(
	ctx context.Context,
	repos TransactionalRepositories,
	cache map[uuid.UUID]supplierContact,
	supplierID uuid.UUID,
) (supplierContact, error) {
	if contact, ok := cache[supplierID]; ok {
		return contact, nil
	}

	supplier, err := repos.Suppliers().FindByID(ctx, supplierID)
	if err != nil {
		return supplierContact{}, err
	}
	owner, err := repos.Users().FindByID(ctx, supplier.UserID)
	if err != nil {
		return supplierContact{}, err
	}

	contact := supplierContact{
		name:      supplier.Name,
		email:     owner.Email,
		accepting: owner.IsAcceptingOrders,
	}
	cache[supplierID] = contact
	return contact, nil
}

// notifyOrderPlaced sends the customer confirmation and one
// notification per supplier involved in the order
func (s *CheckoutService) notifyOrderPlaced(
	ctx context.Context,
	user *identity.User,
	order *ordering.Order,
	contacts map[uuid.UUID]supplierContact,
) {
	orderNumber := shortOrderNumber(order.ID)

	customerLines := make([]notification.OrderLine, len(order.Items))
	for i, item := range order.Items {
		customerLines[i] = notification.OrderLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	s.notifier.OrderPlaced(ctx, notification.OrderPlacedData{
		Email:       user.Email,
		Username:    user.DisplayName(),
		OrderNumber: orderNumber,
		Lines:       customerLines,
		Total:       order.TotalAmount,
	})

	for supplierID, items := range order.ItemsBySupplier() {
		contact, ok := contacts[supplierID]
		if !ok {
			s.logger.Warn("Missing supplier contact for notification",
				zap.String("supplier_id", supplierID.String()),
				zap.String("order_id", order.ID.String()),
			)
			continue
		}

		lines := make([]notification.OrderLine, len(items))
		subtotal := decimal.Zero
		for i, item := range items {
			lines[i] = notification.OrderLine{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			}
			subtotal = subtotal.Add(item.Amount())
		}

		s.notifier.SupplierOrderReceived(ctx, notification.SupplierOrderData{
			Email:        contact.email,
			SupplierName: contact.name,
			OrderNumber:  orderNumber,
			Lines:        lines,
			Subtotal:     subtotal,
		})
	}
}

// shortOrderNumber renders the human-facing order reference
func shortOrderNumber(id uuid.UUID) string {
	return id.String()[:8]
}
