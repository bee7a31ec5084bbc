package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

type OrderRepository interface {
	// CreateFromCart stores order and removes its line items from the owner's
	// cart in one durable step. Fails with domain.ErrCartChanged when the cart
	// no longer holds every item.
	CreateFromCart(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]domain.Order, error)
	// UpdateStatus moves the order from one status to another only if it is
	// still in from, otherwise it fails with domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus, at time.Time) error
	// Cancel moves a NEW order to CANCELLED and returns all its items to
	// stock in one step. On any failure nothing changes. A product that no
	// longer exists fails with domain.ErrPartialCancellationFailure.
	Cancel(ctx context.Context, orderID uuid.UUID, at time.Time) (domain.Order, error)
}
