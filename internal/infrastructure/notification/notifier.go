package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// sendTimeout bounds a single delivery attempt
const sendTimeout = 15 * time.Second

// OrderLine describes one purchased item inside a notification
type OrderLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Amount returns the line total
func (l OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// UserRegisteredData carries the welcome email payload
type UserRegisteredData struct {
	Email    string
	Username string
}

// OrderPlacedData carries the customer order confirmation payload
type OrderPlacedData struct {
	Email       string
	Username    string
	OrderNumber string
	Lines       []OrderLine
	Total       decimal.Decimal
}

// SupplierOrderData carries the per-supplier order notification payload.
// Lines contain only the items belonging to this supplier.
type SupplierOrderData struct {
	Email        string
	SupplierName string
	OrderNumber  string
	Lines        []OrderLine
	Subtotal     decimal.Decimal
}

// OrderCancelledData carries the cancellation notice payload
type OrderCancelledData struct {
	Email       string
	Username    string
	OrderNumber string
}

// PasswordResetData carries the reset token email payload
type PasswordResetData struct {
	Email    string
	Username string
	Token    string
	TTL      time.Duration
}

// Notifier delivers user-facing emails. Implementations must not block
// the caller on delivery and must not surface delivery errors to it.
type Notifier interface {
	UserRegistered(ctx context.Context, data UserRegisteredData)
	OrderPlaced(ctx context.Context, data OrderPlacedData)
	SupplierOrderReceived(ctx context.Context, data SupplierOrderData)
	OrderCancelled(ctx context.Context, data OrderCancelledData)
	PasswordReset(ctx context.Context, data PasswordResetData)
}

// EmailNotifier composes emails and sends them through a Mailer in the
// background. Delivery failures are logged, never returned.
type EmailNotifier struct {
	mailer Mailer
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewEmailNotifier creates a notifier backed by the given mailer
func NewEmailNotifier(mailer Mailer, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		mailer: mailer,
		logger: logger.Named("notifier"),
	}
}

// dispatch sends a message in the background, detached from the request context
func (n *EmailNotifier) dispatch(to, subject, body string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := n.mailer.Send(ctx, to, subject, body); err != nil {
			n.logger.Error("Failed to send notification email",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and in tests.
func (n *EmailNotifier) Wait() {
	n.wg.Wait()
}

// UserRegistered sends the welcome email after registration
func (n *EmailNotifier) UserRegistered(_ context.Context, data UserRegisteredData) {
	body := fmt.Sprintf("Hello %s,\n\nYour account has been created. You can now sign in and start shopping.\n", data.Username)
	n.dispatch(data.Email, "Welcome to the marketplace", body)
}

// OrderPlaced sends the order confirmation to the customer
func (n *EmailNotifier) OrderPlaced(_ context.Context, data OrderPlacedData) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour order %s has been placed.\n\n", data.Username, data.OrderNumber)
	writeLines(&b, data.Lines)
	fmt.Fprintf(&b, "\nTotal: %s\n", data.Total.StringFixed(2))

	n.dispatch(data.Email, fmt.Sprintf("Order %s confirmed", data.OrderNumber), b.String())
}

// SupplierOrderReceived notifies a supplier about their portion of an order
func (n *EmailNotifier) SupplierOrderReceived(_ context.Context, data SupplierOrderData) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYou have received new items in order %s:\n\n", data.SupplierName, data.OrderNumber)
	writeLines(&b, data.Lines)
	fmt.Fprintf(&b, "\nSubtotal: %s\n", data.Subtotal.StringFixed(2))

	n.dispatch(data.Email, fmt.Sprintf("New order %s", data.OrderNumber), b.String())
}

// OrderCancelled notifies the customer that their order was cancelled
func (n *EmailNotifier) OrderCancelled(_ context.Context, data OrderCancelledData) {
	body := fmt.Sprintf("Hello %s,\n\nYour order %s has been cancelled. Reserved items were returned to stock.\n", data.Username, data.OrderNumber)
	n.dispatch(data.Email, fmt.Sprintf("Order %s cancelled", data.OrderNumber), body)
}

// PasswordReset sends the reset token to the user
func (n *EmailNotifier) PasswordReset(_ context.Context, data PasswordResetData) {
	body := fmt.Sprintf(
		"Hello %s,\n\nUse the following token to reset your password:\n\n%s\n\nThe token expires in %s and can be used once.\n",
		data.Username, data.Token, data.TTL,
	)
	n.dispatch(data.Email, "Password reset request", body)
}

func writeLines(b *strings.Builder, lines []OrderLine) {
	for _, line := range lines {
		fmt.Fprintf(b, "  %s x%d @ %s = %s\n",
			line.ProductName, line.Quantity,
			line.UnitPrice.StringFixed(2), line.Amount().StringFixed(2))
	}
}

var _ Notifier = (*EmailNotifier)(nil)

// NoopNotifier discards all notifications
type NoopNotifier struct{}

func (NoopNotifier) UserRegistered(context.Context, UserRegisteredData)       {}
func (NoopNotifier) OrderPlaced(context.Context, OrderPlacedData)             {}
func (NoopNotifier) SupplierOrderReceived(context.Context, SupplierOrderData) {}
func (NoopNotifier) OrderCancelled(context.Context, OrderCancelledData)       {}
func (NoopNotifier) PasswordReset(context.Context, PasswordResetData)         {}

var _ Notifier = NoopNotifier{}
