package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const insertOrder = `
INSERT INTO orders (id, customer_id, contact_name, contact_email, contact_phone, contact_address,
                    total_amount, total_currency, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type InsertOrderParams struct {
	ID             uuid.UUID
	CustomerID     string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	ContactAddress string
	TotalAmount    decimal.Decimal
	TotalCurrency  string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) error {
	_, err := q.db.Exec(ctx, insertOrder,
		arg.ID,
		arg.CustomerID,
		arg.ContactName,
		arg.ContactEmail,
		arg.ContactPhone,
		arg.ContactAddress,
		arg.TotalAmount,
		arg.TotalCurrency,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const insertOrderItem = `
INSERT INTO order_items (id, order_id, position, product_id, name, price_amount, price_currency, quantity, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertOrderItemParams struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Position      int32
	ProductID     string
	Name          string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Quantity      int32
	CreatedAt     time.Time
}

func (q *Queries) InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) error {
	_, err := q.db.Exec(ctx, insertOrderItem,
		arg.ID,
		arg.OrderID,
		arg.Position,
		arg.ProductID,
		arg.Name,
		arg.PriceAmount,
		arg.PriceCurrency,
		arg.Quantity,
		arg.CreatedAt,
	)
	return err
}

const getOrder = `
SELECT id, customer_id, contact_name, contact_email, contact_phone, contact_address,
       total_amount, total_currency, status, created_at, updated_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

const listOrdersByCustomer = `
SELECT id, customer_id, contact_name, contact_email, contact_phone, contact_address,
       total_amount, total_currency, status, created_at, updated_at
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC, id
`

func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var i Order
		if err := scanOrder(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getOrderItems = `
SELECT id, order_id, position, product_id, name, price_amount, price_currency, quantity, created_at
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY order_id, position
`

func (q *Queries) GetOrderItems(ctx context.Context, orderIDs []uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, getOrderItems, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.Position,
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

const updateOrderStatus = `
UPDATE orders
SET status = $3, updated_at = $4
WHERE id = $1 AND status = $2
`

type UpdateOrderStatusParams struct {
	ID        uuid.UUID
	From      string
	To        string
	UpdatedAt time.Time
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateOrderStatus, arg.ID, arg.From, arg.To, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, i *Order) error {
	return row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.ContactName,
		&i.ContactEmail,
		&i.ContactPhone,
		&i.ContactAddress,
		&i.TotalAmount,
		&i.TotalCurrency,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}
