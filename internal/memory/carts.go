package memory

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

type cart struct {
	mu    sync.Mutex
	items []domain.LineItem
}

type Carts struct {
	carts sync.Map // ownerID -> *cart
	now   func() time.Time
}

func NewCarts() *Carts {
	return &Carts{now: time.Now}
}

func (s *Carts) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	c := s.cartFor(ownerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	return domain.Cart{
		OwnerID: ownerID,
		Items:   slices.Clone(c.items),
	}, nil
}

func (s *Carts) AddItem(_ context.Context, ownerID string, item domain.LineItem) (domain.LineItem, error) {
	if ownerID == "" {
		return domain.LineItem{}, fmt.Errorf("ownerID is empty")
	}
	if item.Quantity <= 0 || item.Quantity > math.MaxInt32 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}

	c := s.cartFor(ownerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			if c.items[i].Quantity > math.MaxInt32-item.Quantity {
				return domain.LineItem{}, fmt.Errorf("item[%s] quantity %d + %d: %w",
					c.items[i].ID, c.items[i].Quantity, item.Quantity, domain.ErrInvalidQuantity)
			}
			c.items[i].Quantity += item.Quantity
			return c.items[i], nil
		}
	}

	item.CreatedAt = s.now()
	c.items = append(c.items, item)

	return item, nil
}

func (s *Carts) DeleteItem(_ context.Context, ownerID string, itemID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	c := s.cartFor(ownerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(item domain.LineItem) bool {
		return item.ID == itemID
	})

	return len(c.items) < n, nil
}

// transfer removes the given items from the owner's cart and hands them to
// commit while the cart is locked. Nothing is removed if any item is missing
// or commit fails.
func (s *Carts) transfer(ownerID string, items []domain.LineItem, commit func() error) error {
	c := s.cartFor(ownerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	moving := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		moving[item.ID] = struct{}{}
	}

	remaining := make([]domain.LineItem, 0, len(c.items))
	for _, item := range c.items {
		if _, ok := moving[item.ID]; ok {
			delete(moving, item.ID)
			continue
		}
		remaining = append(remaining, item)
	}

	if len(moving) > 0 {
		return fmt.Errorf("%d items missing: %w", len(moving), domain.ErrCartChanged)
	}

	if err := commit(); err != nil {
		return err
	}

	c.items = remaining

	return nil
}

func (s *Carts) cartFor(ownerID string) *cart {
	v, _ := s.carts.LoadOrStore(ownerID, &cart{})
	return v.(*cart)
}
