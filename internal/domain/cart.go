package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Items   []LineItem
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindProduct returns the line item holding productID, if any.
func (c Cart) FindProduct(productID string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}

	return LineItem{}, false
}

// LineItem carries a snapshot of the product name and price taken when the
// item was first put into a cart. It belongs to a cart or to an order, never both.
type LineItem struct {
	ID        uuid.UUID
	ProductID string
	Name      string
	Price     Money
	Quantity  int

	CreatedAt time.Time
}

func (i LineItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// SnapshotLineItem builds a new line item from the current catalog state of p.
func SnapshotLineItem(p Product, quantity int) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}

	return LineItem{
		ID:        uuid.New(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
	}, nil
}

type ProductQuantity struct {
	ProductID string
	Quantity  int
}

// QuantitiesByProduct sums item quantities per product, ordered by product id.
func QuantitiesByProduct(items []LineItem) []ProductQuantity {
	sums := make(map[string]int, len(items))
	for _, item := range items {
		sums[item.ProductID] += item.Quantity
	}

	out := make([]ProductQuantity, 0, len(sums))
	for _, id := range slices.Sorted(maps.Keys(sums)) {
		out = append(out, ProductQuantity{ProductID: id, Quantity: sums[id]})
	}

	return out
}
