// Package memory keeps every port in process memory. It backs the memory
// store driver and the service tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nikolayk812/checkout-core/internal/domain"
)

type stockRecord struct {
	mu      sync.Mutex
	product domain.Product
}

// Inventory is both the catalog and the inventory ledger. Each product has
// its own lock. Only restock holds several of them, always in product id order.
type Inventory struct {
	records sync.Map // productID -> *stockRecord
	now     func() time.Time
}

func NewInventory() *Inventory {
	return &Inventory{now: time.Now}
}

func (s *Inventory) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	record, err := s.record(productID)
	if err != nil {
		return domain.Product{}, err
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	return record.product, nil
}

func (s *Inventory) CreateProduct(_ context.Context, product domain.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product.ID is empty")
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("product.Price is negative")
	}
	if product.Stock < 0 || product.Stock > math.MaxInt32 {
		return fmt.Errorf("product.Stock[%d] is out of range", product.Stock)
	}

	now := s.now()
	product.CreatedAt, product.UpdatedAt = now, now

	if _, loaded := s.records.LoadOrStore(product.ID, &stockRecord{product: product}); loaded {
		return fmt.Errorf("product[%s]: %w", product.ID, domain.ErrProductExists)
	}

	return nil
}

func (s *Inventory) UpdatePrice(_ context.Context, productID string, price domain.Money) error {
	if price.IsNegative() {
		return fmt.Errorf("price is negative")
	}

	return s.update(productID, func(p *domain.Product) error {
		p.Price = price
		return nil
	})
}

func (s *Inventory) Reserve(_ context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty[%d]: %w", qty, domain.ErrInvalidQuantity)
	}

	return s.update(productID, func(p *domain.Product) error {
		if p.Stock < qty {
			return fmt.Errorf("product[%s]: %w", productID, domain.ErrInsufficientStock)
		}
		p.Stock -= qty
		return nil
	})
}

func (s *Inventory) Release(_ context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty[%d]: %w", qty, domain.ErrInvalidQuantity)
	}

	return s.update(productID, func(p *domain.Product) error {
		if p.Stock > math.MaxInt32-qty {
			return fmt.Errorf("product[%s] stock %d + %d: %w", productID, p.Stock, qty, domain.ErrInvalidQuantity)
		}
		p.Stock += qty
		return nil
	})
}

// restock returns items to stock all at once. Nothing changes when a product
// is missing or a stock level would overflow.
func (s *Inventory) restock(items []domain.LineItem) error {
	quantities := domain.QuantitiesByProduct(items)

	records := make([]*stockRecord, 0, len(quantities))
	for _, q := range quantities {
		if q.Quantity <= 0 {
			return fmt.Errorf("product[%s] qty[%d]: %w", q.ProductID, q.Quantity, domain.ErrInvalidQuantity)
		}
		record, err := s.record(q.ProductID)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	for _, record := range records {
		record.mu.Lock()
		defer record.mu.Unlock()
	}

	for i, q := range quantities {
		if stock := records[i].product.Stock; stock > math.MaxInt32-q.Quantity {
			return fmt.Errorf("product[%s] stock %d + %d: %w", q.ProductID, stock, q.Quantity, domain.ErrInvalidQuantity)
		}
	}

	now := s.now()
	for i, q := range quantities {
		records[i].product.Stock += q.Quantity
		records[i].product.UpdatedAt = now
	}

	return nil
}

func (s *Inventory) Available(ctx context.Context, productID string) (int, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	return product.Stock, nil
}

func (s *Inventory) update(productID string, fn func(p *domain.Product) error) error {
	record, err := s.record(productID)
	if err != nil {
		return err
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	next := record.product
	if err := fn(&next); err != nil {
		return err
	}

	next.UpdatedAt = s.now()
	record.product = next

	return nil
}

func (s *Inventory) record(productID string) (*stockRecord, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: productID is empty", domain.ErrInvalidInput)
	}

	v, ok := s.records.Load(productID)
	if !ok {
		return nil, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}

	return v.(*stockRecord), nil
}
