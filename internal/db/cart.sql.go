package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const getCart = `
SELECT id, product_id, name, price_amount, price_currency, quantity, created_at
FROM cart_items
WHERE owner_id = $1
ORDER BY seq
`

type GetCartRow struct {
	ID            uuid.UUID
	ProductID     string
	Name          string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Quantity      int32
	CreatedAt     time.Time
}

func (q *Queries) GetCart(ctx context.Context, ownerID string) ([]GetCartRow, error) {
	rows, err := q.db.Query(ctx, getCart, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCartRow
	for rows.Next() {
		var i GetCartRow
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.Name,
			&i.PriceAmount,
			&i.PriceCurrency,
			&i.Quantity,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// The snapshot of an existing line is kept, only its quantity grows.
const addItem = `
INSERT INTO cart_items (id, owner_id, product_id, name, price_amount, price_currency, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (owner_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id, product_id, name, price_amount, price_currency, quantity, created_at
`

type AddItemParams struct {
	ID            uuid.UUID
	OwnerID       string
	ProductID     string
	Name          string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Quantity      int32
}

func (q *Queries) AddItem(ctx context.Context, arg AddItemParams) (GetCartRow, error) {
	row := q.db.QueryRow(ctx, addItem,
		arg.ID,
		arg.OwnerID,
		arg.ProductID,
		arg.Name,
		arg.PriceAmount,
		arg.PriceCurrency,
		arg.Quantity,
	)
	var i GetCartRow
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.Name,
		&i.PriceAmount,
		&i.PriceCurrency,
		&i.Quantity,
		&i.CreatedAt,
	)
	return i, err
}

const deleteItem = `
DELETE FROM cart_items
WHERE owner_id = $1 AND id = $2
`

type DeleteItemParams struct {
	OwnerID string
	ID      uuid.UUID
}

func (q *Queries) DeleteItem(ctx context.Context, arg DeleteItemParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteItem, arg.OwnerID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteItems = `
DELETE FROM cart_items
WHERE owner_id = $1 AND id = ANY($2::uuid[])
`

type DeleteItemsParams struct {
	OwnerID string
	IDs     []uuid.UUID
}

func (q *Queries) DeleteItems(ctx context.Context, arg DeleteItemsParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteItems, arg.OwnerID, arg.IDs)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
