package db

import (
	"context"

	"github.com/shopspring/decimal"
)

const getProduct = `
SELECT id, name, price_amount, price_currency, stock, created_at, updated_at
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id string) (Product, error) {
	row := q.db.QueryRow(ctx, getProduct, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.PriceAmount,
		&i.PriceCurrency,
		&i.Stock,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createProduct = `
INSERT INTO products (id, name, price_amount, price_currency, stock)
VALUES ($1, $2, $3, $4, $5)
`

type CreateProductParams struct {
	ID            string
	Name          string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Stock         int32
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) error {
	_, err := q.db.Exec(ctx, createProduct,
		arg.ID,
		arg.Name,
		arg.PriceAmount,
		arg.PriceCurrency,
		arg.Stock,
	)
	return err
}

const updateProductPrice = `
UPDATE products
SET price_amount = $2, price_currency = $3, updated_at = NOW()
WHERE id = $1
`

type UpdateProductPriceParams struct {
	ID            string
	PriceAmount   decimal.Decimal
	PriceCurrency string
}

func (q *Queries) UpdateProductPrice(ctx context.Context, arg UpdateProductPriceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateProductPrice, arg.ID, arg.PriceAmount, arg.PriceCurrency)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const reserveStock = `
UPDATE products
SET stock = stock - $2, updated_at = NOW()
WHERE id = $1 AND stock >= $2
RETURNING stock
`

type ReserveStockParams struct {
	ID       string
	Quantity int32
}

func (q *Queries) ReserveStock(ctx context.Context, arg ReserveStockParams) (int32, error) {
	row := q.db.QueryRow(ctx, reserveStock, arg.ID, arg.Quantity)
	var stock int32
	err := row.Scan(&stock)
	return stock, err
}

const releaseStock = `
UPDATE products
SET stock = stock + $2, updated_at = NOW()
WHERE id = $1
RETURNING stock
`

type ReleaseStockParams struct {
	ID       string
	Quantity int32
}

func (q *Queries) ReleaseStock(ctx context.Context, arg ReleaseStockParams) (int32, error) {
	row := q.db.QueryRow(ctx, releaseStock, arg.ID, arg.Quantity)
	var stock int32
	err := row.Scan(&stock)
	return stock, err
}

const getStock = `
SELECT stock
FROM products
WHERE id = $1
`

func (q *Queries) GetStock(ctx context.Context, id string) (int32, error) {
	row := q.db.QueryRow(ctx, getStock, id)
	var stock int32
	err := row.Scan(&stock)
	return stock, err
}
