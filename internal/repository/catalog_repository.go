package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/db"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type catalogRepository struct {
	q *db.Queries
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{
		q: db.New(pool),
	}
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, fmt.Errorf("%w: productID is empty", domain.ErrInvalidInput)
	}

	row, err := r.q.GetProduct(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	product, err := mapProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (r *catalogRepository) CreateProduct(ctx context.Context, product domain.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product.ID is empty")
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("product.Price is negative")
	}
	if product.Stock < 0 || product.Stock > math.MaxInt32 {
		return fmt.Errorf("product.Stock[%d] is out of range", product.Stock)
	}

	err := r.q.CreateProduct(ctx, db.CreateProductParams{
		ID:            product.ID,
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Stock:         int32(product.Stock),
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("product[%s]: %w", product.ID, domain.ErrProductExists)
	}
	if err != nil {
		return fmt.Errorf("q.CreateProduct: %w", err)
	}

	return nil
}

func (r *catalogRepository) UpdatePrice(ctx context.Context, productID string, price domain.Money) error {
	if productID == "" {
		return fmt.Errorf("%w: productID is empty", domain.ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("price is negative")
	}

	rowsAffected, err := r.q.UpdateProductPrice(ctx, db.UpdateProductPriceParams{
		ID:            productID,
		PriceAmount:   price.Amount,
		PriceCurrency: price.Currency.String(),
	})
	if err != nil {
		return fmt.Errorf("q.UpdateProductPrice: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}

	return nil
}
