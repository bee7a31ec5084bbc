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

// inventoryRepository keeps stock in the products table. Every operation is a
// single-row statement, so the row lock linearizes calls on one product while
// different products never wait for each other.
type inventoryRepository struct {
	q *db.Queries
}

func NewInventory(pool *pgxpool.Pool) port.InventoryLedger {
	return &inventoryRepository{
		q: db.New(pool),
	}
}

func (r *inventoryRepository) Reserve(ctx context.Context, productID string, qty int) error {
	if err := validateMovement(productID, qty); err != nil {
		return err
	}

	err := retry(ctx, func() error {
		_, err := r.q.ReserveStock(ctx, db.ReserveStockParams{ID: productID, Quantity: int32(qty)})
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		// the conditional update matched nothing: unknown product or too little stock
		if _, err := r.Available(ctx, productID); err != nil {
			return err
		}
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrInsufficientStock)
	}
	if err != nil {
		return fmt.Errorf("q.ReserveStock: %w", err)
	}

	return nil
}

func (r *inventoryRepository) Release(ctx context.Context, productID string, qty int) error {
	if err := validateMovement(productID, qty); err != nil {
		return err
	}

	err := retry(ctx, func() error {
		_, err := r.q.ReleaseStock(ctx, db.ReleaseStockParams{ID: productID, Quantity: int32(qty)})
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}
	if isOutOfRange(err) {
		return fmt.Errorf("product[%s] stock + %d: %w", productID, qty, domain.ErrInvalidQuantity)
	}
	if err != nil {
		return fmt.Errorf("q.ReleaseStock: %w", err)
	}

	return nil
}

func (r *inventoryRepository) Available(ctx context.Context, productID string) (int, error) {
	if productID == "" {
		return 0, fmt.Errorf("%w: productID is empty", domain.ErrInvalidInput)
	}

	stock, err := r.q.GetStock(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("q.GetStock: %w", err)
	}

	return int(stock), nil
}

func validateMovement(productID string, qty int) error {
	if productID == "" {
		return fmt.Errorf("%w: productID is empty", domain.ErrInvalidInput)
	}
	if qty <= 0 || qty > math.MaxInt32 {
		return fmt.Errorf("qty[%d]: %w", qty, domain.ErrInvalidQuantity)
	}
	return nil
}
