package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

// CatalogService is the staff side of the store: products, prices and restocking.
type CatalogService struct {
	catalog port.CatalogRepository
	ledger  port.InventoryLedger
	log     *slog.Logger
}

func NewCatalogService(catalog port.CatalogRepository, ledger port.InventoryLedger, log *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		ledger:  ledger,
		log:     log,
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		return domain.Product{}, fmt.Errorf("product.ID is empty")
	}
	if err := validatePrice(product.Price); err != nil {
		return domain.Product{}, err
	}
	if product.Stock < 0 {
		return domain.Product{}, fmt.Errorf("product.Stock[%d]: %w", product.Stock, domain.ErrInvalidQuantity)
	}

	if err := s.catalog.CreateProduct(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("catalog.CreateProduct: %w", err)
	}

	s.log.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("price", product.Price.String()),
		slog.Int("stock", product.Stock))

	return s.GetProduct(ctx, product.ID)
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	return product, nil
}

// UpdatePrice changes the catalog price. Line items already in carts or
// orders keep the price they were snapshotted with.
func (s *CatalogService) UpdatePrice(ctx context.Context, productID string, price domain.Money) (domain.Product, error) {
	if err := validatePrice(price); err != nil {
		return domain.Product{}, err
	}

	if err := s.catalog.UpdatePrice(ctx, productID, price); err != nil {
		return domain.Product{}, fmt.Errorf("catalog.UpdatePrice: %w", err)
	}

	return s.GetProduct(ctx, productID)
}

// Restock adds qty units to the product's available stock.
func (s *CatalogService) Restock(ctx context.Context, productID string, qty int) (domain.Product, error) {
	if qty <= 0 {
		return domain.Product{}, fmt.Errorf("qty[%d]: %w", qty, domain.ErrInvalidQuantity)
	}

	if err := s.ledger.Release(ctx, productID, qty); err != nil {
		return domain.Product{}, fmt.Errorf("ledger.Release: %w", err)
	}

	s.log.InfoContext(ctx, "product restocked",
		slog.String("product_id", productID),
		slog.Int("quantity", qty))

	return s.GetProduct(ctx, productID)
}

// validatePrice accepts non-negative amounts in whole cents, which is what
// the store keeps.
func validatePrice(price domain.Money) error {
	if price.IsNegative() {
		return fmt.Errorf("price %s is negative: %w", price.Amount, domain.ErrInvalidPrice)
	}
	if !price.FitsCents() {
		return fmt.Errorf("price %s has more than 2 decimal places: %w", price.Amount, domain.ErrInvalidPrice)
	}
	return nil
}
