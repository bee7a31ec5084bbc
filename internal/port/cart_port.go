package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
)

type CartRepository interface {
	// GetCart returns the cart items in insertion order. A customer without a
	// cart gets an empty one.
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	// AddItem stores item, or merges its quantity into the existing line for the
	// same product keeping that line's price snapshot. Returns the stored line.
	AddItem(ctx context.Context, ownerID string, item domain.LineItem) (domain.LineItem, error)
	DeleteItem(ctx context.Context, ownerID string, itemID uuid.UUID) (bool, error)
}
