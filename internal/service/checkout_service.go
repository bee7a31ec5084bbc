package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type CheckoutService struct {
	carts     port.CartRepository
	customers port.CustomerRepository
	ledger    port.InventoryLedger
	orders    port.OrderRepository
	log       *slog.Logger
	observer  Observer
	now       func() time.Time
}

type CheckoutOption func(*CheckoutService)

func WithCheckoutObserver(o Observer) CheckoutOption {
	return func(s *CheckoutService) { s.observer = o }
}

func WithCheckoutClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

func NewCheckoutService(
	carts port.CartRepository,
	customers port.CustomerRepository,
	ledger port.InventoryLedger,
	orders port.OrderRepository,
	log *slog.Logger,
	opts ...CheckoutOption,
) *CheckoutService {
	s := &CheckoutService{
		carts:     carts,
		customers: customers,
		ledger:    ledger,
		orders:    orders,
		log:       log,
		observer:  nopObserver{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the customer's cart into a NEW order.
//
// Stock is reserved line by line in cart order. The first failed reservation,
// or a failure to persist the order, releases every earlier reservation in
// reverse order before the error is returned, so a failed checkout leaves
// inventory and cart as they were.
func (s *CheckoutService) Checkout(ctx context.Context, customerID string) (domain.Order, error) {
	start := time.Now()

	order, err := s.checkout(ctx, customerID)
	s.observer.ObserveCheckout(err, time.Since(start))

	if err != nil {
		s.log.WarnContext(ctx, "checkout failed",
			slog.String("customer_id", customerID),
			slog.String("kind", domain.Kind(err)),
			slog.Any("error", err))
		return domain.Order{}, err
	}

	s.log.InfoContext(ctx, "checkout completed",
		slog.String("customer_id", customerID),
		slog.String("order_id", order.ID.String()),
		slog.String("total", order.Total.String()),
		slog.Int("items", len(order.Items)))

	return order, nil
}

func (s *CheckoutService) checkout(ctx context.Context, customerID string) (domain.Order, error) {
	if customerID == "" {
		return domain.Order{}, fmt.Errorf("%w: customerID is empty", domain.ErrInvalidInput)
	}

	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: carts.GetCart: %w", domain.ErrPersistence, err)
	}
	if cart.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	contact, err := s.customers.GetContact(ctx, customerID)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		// no saved contact details, the order still records who placed it
		contact = domain.Contact{CustomerID: customerID}
	case err != nil:
		return domain.Order{}, fmt.Errorf("%w: customers.GetContact: %w", domain.ErrPersistence, err)
	}

	// building the order first rejects carts mixing currencies before any stock moves
	order, err := domain.NewOrder(contact, cart.Items, s.now())
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.NewOrder: %w", err)
	}

	var reserved compensation
	for _, item := range order.Items {
		if err := s.ledger.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			return domain.Order{}, s.compensate(ctx, reserved, classify("ledger.Reserve", err))
		}
		reserved = append(reserved, item)
	}

	if err := s.orders.CreateFromCart(ctx, order); err != nil {
		return domain.Order{}, s.compensate(ctx, reserved,
			fmt.Errorf("%w: orders.CreateFromCart: %w", domain.ErrPersistence, err))
	}

	return order, nil
}

// compensation lists the line items reserved so far, in reservation order.
type compensation []domain.LineItem

// compensate releases every reservation in reverse order and returns cause,
// joined with any release that failed. It runs even if ctx was cancelled.
func (s *CheckoutService) compensate(ctx context.Context, reserved compensation, cause error) error {
	if len(reserved) == 0 {
		return cause
	}

	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := s.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.ErrorContext(ctx, "compensating release failed",
				slog.String("product_id", item.ProductID),
				slog.Int("quantity", item.Quantity),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("release product[%s] x%d: %w", item.ProductID, item.Quantity, err))
		}
	}

	s.observer.ObserveCompensation(len(reserved)-len(errs), len(errs))

	if len(errs) == 0 {
		return cause
	}

	return errors.Join(append([]error{cause}, errs...)...)
}

// classify keeps domain errors, input errors included, as they are and marks
// anything else as a persistence failure.
func classify(op string, err error) error {
	if domain.Kind(err) != "internal" {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}
