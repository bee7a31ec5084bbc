package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/db"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	items, err := mapGetCartRowsToDomain(rows)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.LineItem) (domain.LineItem, error) {
	if ownerID == "" {
		return domain.LineItem{}, fmt.Errorf("ownerID is empty")
	}
	if item.Quantity <= 0 || item.Quantity > math.MaxInt32 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}

	row, err := r.q.AddItem(ctx, db.AddItemParams{
		ID:            item.ID,
		OwnerID:       ownerID,
		ProductID:     item.ProductID,
		Name:          item.Name,
		PriceAmount:   item.Price.Amount,
		PriceCurrency: item.Price.Currency.String(),
		Quantity:      int32(item.Quantity),
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.LineItem{}, fmt.Errorf("product[%s]: %w", item.ProductID, domain.ErrProductNotFound)
		}
		return domain.LineItem{}, fmt.Errorf("q.AddItem: %w", err)
	}

	stored, err := mapGetCartRowToDomain(row)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("mapGetCartRowToDomain: %w", err)
	}

	return stored, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, itemID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID: ownerID,
		ID:      itemID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}
