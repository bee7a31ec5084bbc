package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/db"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *orderRepository) CreateFromCart(ctx context.Context, order domain.Order) error {
	if order.CustomerID == "" {
		return fmt.Errorf("order.CustomerID is empty")
	}
	if len(order.Items) == 0 {
		return domain.ErrEmptyCart
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if err := q.InsertOrder(ctx, mapOrderToInsertParams(order)); err != nil {
			return struct{}{}, fmt.Errorf("q.InsertOrder: %w", err)
		}

		ids := make([]uuid.UUID, 0, len(order.Items))
		for i, item := range order.Items {
			if item.Quantity <= 0 || item.Quantity > math.MaxInt32 {
				return struct{}{}, fmt.Errorf("item[%s]: %w", item.ID, domain.ErrInvalidQuantity)
			}

			err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				ID:            item.ID,
				OrderID:       order.ID,
				Position:      int32(i),
				ProductID:     item.ProductID,
				Name:          item.Name,
				PriceAmount:   item.Price.Amount,
				PriceCurrency: item.Price.Currency.String(),
				Quantity:      int32(item.Quantity),
				CreatedAt:     item.CreatedAt,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.InsertOrderItem: %w", err)
			}

			ids = append(ids, item.ID)
		}

		deleted, err := q.DeleteItems(ctx, db.DeleteItemsParams{OwnerID: order.CustomerID, IDs: ids})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteItems: %w", err)
		}
		if deleted != int64(len(ids)) {
			return struct{}{}, fmt.Errorf("moved %d of %d items: %w", deleted, len(ids), domain.ErrCartChanged)
		}

		return struct{}{}, nil
	})

	return err
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	itemRows, err := r.q.GetOrderItems(ctx, []uuid.UUID{orderID})
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrderItems: %w", err)
	}

	order, err := mapOrderToDomain(row, itemRows)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapOrderToDomain: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customerID is empty")
	}

	rows, err := r.q.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersByCustomer: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	itemRows, err := r.q.GetOrderItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.GetOrderItems: %w", err)
	}

	itemsByOrder := make(map[uuid.UUID][]db.OrderItem, len(rows))
	for _, itemRow := range itemRows {
		itemsByOrder[itemRow.OrderID] = append(itemsByOrder[itemRow.OrderID], itemRow)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := mapOrderToDomain(row, itemsByOrder[row.ID])
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus, at time.Time) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	rowsAffected, err := r.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		ID:        orderID,
		From:      string(from),
		To:        string(to),
		UpdatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}
	if rowsAffected == 0 {
		return transitionError(ctx, r.q, orderID, to)
	}

	return nil
}

// Cancel flips the status and returns every item to stock in one
// transaction. The status update goes first, so a concurrent cancel blocks
// on the order row and then finds it no longer NEW.
func (r *orderRepository) Cancel(ctx context.Context, orderID uuid.UUID, at time.Time) (domain.Order, error) {
	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Order, error) {
		rowsAffected, err := q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			ID:        orderID,
			From:      string(domain.OrderStatusNew),
			To:        string(domain.OrderStatusCancelled),
			UpdatedAt: at,
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.UpdateOrderStatus: %w", err)
		}
		if rowsAffected == 0 {
			return domain.Order{}, transitionError(ctx, q, orderID, domain.OrderStatusCancelled)
		}

		row, err := q.GetOrder(ctx, orderID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
		}

		itemRows, err := q.GetOrderItems(ctx, []uuid.UUID{orderID})
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		order, err := mapOrderToDomain(row, itemRows)
		if err != nil {
			return domain.Order{}, fmt.Errorf("mapOrderToDomain: %w", err)
		}

		// Product rows are locked in id order, same as any other cancel.
		for _, pq := range domain.QuantitiesByProduct(order.Items) {
			if pq.Quantity <= 0 || pq.Quantity > math.MaxInt32 {
				return domain.Order{}, fmt.Errorf("%w: product[%s] qty[%d]: %w",
					domain.ErrPartialCancellationFailure, pq.ProductID, pq.Quantity, domain.ErrInvalidQuantity)
			}

			_, err := q.ReleaseStock(ctx, db.ReleaseStockParams{ID: pq.ProductID, Quantity: int32(pq.Quantity)})
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Order{}, fmt.Errorf("%w: product[%s]: %w",
					domain.ErrPartialCancellationFailure, pq.ProductID, domain.ErrProductNotFound)
			}
			if isOutOfRange(err) {
				return domain.Order{}, fmt.Errorf("%w: product[%s] stock + %d: %w",
					domain.ErrPartialCancellationFailure, pq.ProductID, pq.Quantity, domain.ErrInvalidQuantity)
			}
			if err != nil {
				return domain.Order{}, fmt.Errorf("q.ReleaseStock: %w", err)
			}
		}

		return order, nil
	})
}

// transitionError explains why a status CAS matched no row.
func transitionError(ctx context.Context, q *db.Queries, orderID uuid.UUID, to domain.OrderStatus) error {
	current, err := q.GetOrder(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
	}
	if err != nil {
		return fmt.Errorf("q.GetOrder: %w", err)
	}

	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, to)
}

func mapOrderToInsertParams(order domain.Order) db.InsertOrderParams {
	return db.InsertOrderParams{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		ContactName:    order.Contact.Name,
		ContactEmail:   order.Contact.Email,
		ContactPhone:   order.Contact.Phone,
		ContactAddress: order.Contact.Address,
		TotalAmount:    order.Total.Amount,
		TotalCurrency:  order.Total.Currency.String(),
		Status:         string(order.Status),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}
