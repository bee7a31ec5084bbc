package port

import "context"

// InventoryLedger owns product stock counters.
//
// Operations on one product are linearized, operations on different products
// are independent of each other.
type InventoryLedger interface {
	// Reserve decrements stock by qty only if at least qty units are available.
	Reserve(ctx context.Context, productID string, qty int) error
	// Release increments stock by qty.
	Release(ctx context.Context, productID string, qty int) error
	Available(ctx context.Context, productID string) (int, error)
}
