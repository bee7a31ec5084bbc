package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

type orderEntry struct {
	mu    sync.Mutex
	order domain.Order
}

type customerOrders struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

type Orders struct {
	carts      *Carts
	inventory  *Inventory
	orders     sync.Map // orderID -> *orderEntry
	byCustomer sync.Map // customerID -> *customerOrders
}

// NewOrders builds an order store that takes line items out of carts and
// returns them to inventory on cancellation.
func NewOrders(carts *Carts, inventory *Inventory) *Orders {
	return &Orders{carts: carts, inventory: inventory}
}

func (s *Orders) CreateFromCart(_ context.Context, order domain.Order) error {
	if order.CustomerID == "" {
		return fmt.Errorf("order.CustomerID is empty")
	}
	if len(order.Items) == 0 {
		return domain.ErrEmptyCart
	}

	order = cloneOrder(order)

	return s.carts.transfer(order.CustomerID, order.Items, func() error {
		if _, loaded := s.orders.LoadOrStore(order.ID, &orderEntry{order: order}); loaded {
			return fmt.Errorf("order[%s] already exists", order.ID)
		}

		v, _ := s.byCustomer.LoadOrStore(order.CustomerID, &customerOrders{})
		index := v.(*customerOrders)
		index.mu.Lock()
		index.ids = append(index.ids, order.ID)
		index.mu.Unlock()

		return nil
	})
}

func (s *Orders) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	entry, err := s.entry(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return cloneOrder(entry.order), nil
}

func (s *Orders) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customerID is empty")
	}

	v, ok := s.byCustomer.Load(customerID)
	if !ok {
		return nil, nil
	}

	index := v.(*customerOrders)
	index.mu.Lock()
	ids := slices.Clone(index.ids)
	index.mu.Unlock()

	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return orders, nil
}

func (s *Orders) UpdateStatus(_ context.Context, orderID uuid.UUID, from, to domain.OrderStatus, at time.Time) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	entry, err := s.entry(orderID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.order.Status != from {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, entry.order.Status, to)
	}

	entry.order.Status = to
	entry.order.UpdatedAt = at

	return nil
}

// Cancel holds the order lock while the items go back to stock, so a second
// cancel sees CANCELLED and stock is released once.
func (s *Orders) Cancel(_ context.Context, orderID uuid.UUID, at time.Time) (domain.Order, error) {
	entry, err := s.entry(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next := cloneOrder(entry.order)
	if err := next.Cancel(at); err != nil {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, err)
	}

	if err := s.inventory.restock(next.Items); err != nil {
		return domain.Order{}, fmt.Errorf("%w: order[%s]: %w", domain.ErrPartialCancellationFailure, orderID, err)
	}

	entry.order = next

	return cloneOrder(next), nil
}

func (s *Orders) entry(orderID uuid.UUID) (*orderEntry, error) {
	v, ok := s.orders.Load(orderID)
	if !ok {
		return nil, fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
	}

	return v.(*orderEntry), nil
}

func cloneOrder(order domain.Order) domain.Order {
	order.Items = slices.Clone(order.Items)
	return order
}
