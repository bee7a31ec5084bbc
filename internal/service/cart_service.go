package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type CartService struct {
	catalog port.CatalogRepository
	carts   port.CartRepository
	log     *slog.Logger
}

func NewCartService(catalog port.CatalogRepository, carts port.CartRepository, log *slog.Logger) *CartService {
	return &CartService{
		catalog: catalog,
		carts:   carts,
		log:     log,
	}
}

// AddToCart puts qty units of the product into the customer's cart. A new
// line snapshots the current catalog name and price, an existing line for the
// same product only grows.
func (s *CartService) AddToCart(ctx context.Context, customerID, productID string, qty int) (domain.LineItem, error) {
	if customerID == "" {
		return domain.LineItem{}, fmt.Errorf("customerID is empty")
	}
	if qty <= 0 {
		return domain.LineItem{}, fmt.Errorf("qty[%d]: %w", qty, domain.ErrInvalidQuantity)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	item, err := domain.SnapshotLineItem(product, qty)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("domain.SnapshotLineItem: %w", err)
	}

	stored, err := s.carts.AddItem(ctx, customerID, item)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("carts.AddItem: %w", err)
	}

	s.log.DebugContext(ctx, "cart item added",
		slog.String("customer_id", customerID),
		slog.String("product_id", productID),
		slog.Int("quantity", stored.Quantity))

	return stored, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, customerID string, itemID uuid.UUID) error {
	deleted, err := s.carts.DeleteItem(ctx, customerID, itemID)
	if err != nil {
		return fmt.Errorf("carts.DeleteItem: %w", err)
	}
	if !deleted {
		return fmt.Errorf("item[%s]: %w", itemID, domain.ErrItemNotFound)
	}

	return nil
}

func (s *CartService) GetCart(ctx context.Context, customerID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}
