package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type OrderService struct {
	orders   port.OrderRepository
	log      *slog.Logger
	observer Observer
	now      func() time.Time
}

type OrderOption func(*OrderService)

func WithOrderObserver(o Observer) OrderOption {
	return func(s *OrderService) { s.observer = o }
}

func WithOrderClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(orders port.OrderRepository, log *slog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		orders:   orders,
		log:      log,
		observer: nopObserver{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customerID is empty")
	}

	orders, err := s.orders.ListOrders(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}

	return orders, nil
}

// FinishOrder moves a NEW order to FINISHED. Inventory is not touched.
func (s *OrderService) FinishOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.finish(ctx, orderID)
	s.observer.ObserveTransition(domain.OrderStatusFinished, err)
	if err != nil {
		return domain.Order{}, err
	}

	s.log.InfoContext(ctx, "order finished", slog.String("order_id", orderID.String()))

	return order, nil
}

func (s *OrderService) finish(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, classify("orders.GetOrder", err)
	}

	from := order.Status
	if err := order.Finish(s.now()); err != nil {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, err)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, from, order.Status, order.UpdatedAt); err != nil {
		return domain.Order{}, classify("orders.UpdateStatus", err)
	}

	return order, nil
}

// CancelOrder moves a NEW order to CANCELLED and puts every line item back
// into stock. Either all items are released and the status changes, or no
// stock moves and the status stays NEW.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, requestedBy string) (domain.Order, error) {
	order, err := s.cancel(ctx, orderID)
	s.observer.ObserveTransition(domain.OrderStatusCancelled, err)
	if err != nil {
		s.log.WarnContext(ctx, "order cancellation failed",
			slog.String("order_id", orderID.String()),
			slog.String("requested_by", requestedBy),
			slog.String("kind", domain.Kind(err)),
			slog.Any("error", err))
		return domain.Order{}, err
	}

	s.log.InfoContext(ctx, "order cancelled",
		slog.String("order_id", orderID.String()),
		slog.String("requested_by", requestedBy),
		slog.Int("items", len(order.Items)))

	return order, nil
}

func (s *OrderService) cancel(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.Cancel(ctx, orderID, s.now())
	if err != nil {
		return domain.Order{}, classify("orders.Cancel", err)
	}

	return order, nil
}
