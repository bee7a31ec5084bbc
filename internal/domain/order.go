package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusFinished  OrderStatus = "FINISHED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFinished || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusNew && next.IsTerminal()
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(s); status {
	case OrderStatusNew, OrderStatusFinished, OrderStatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

type Order struct {
	ID         uuid.UUID
	CustomerID string
	Contact    Contact
	Items      []LineItem
	Total      Money
	Status     OrderStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder takes ownership of items and freezes the order total.
func NewOrder(contact Contact, items []LineItem, now time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	total := Money{Currency: items[0].Price.Currency}
	for _, item := range items {
		var err error
		if total, err = total.Add(item.Subtotal()); err != nil {
			return Order{}, fmt.Errorf("item %s: %w", item.ProductID, err)
		}
	}

	return Order{
		ID:         uuid.New(),
		CustomerID: contact.CustomerID,
		Contact:    contact,
		Items:      items,
		Total:      total,
		Status:     OrderStatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (o *Order) Finish(now time.Time) error {
	return o.transition(OrderStatusFinished, now)
}

func (o *Order) Cancel(now time.Time) error {
	return o.transition(OrderStatusCancelled, now)
}

func (o *Order) transition(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	o.UpdatedAt = now

	return nil
}
