package domain

import "errors"

// Stable error kinds surfaced by the checkout core.
var (
	ErrProductNotFound            = errors.New("product not found")
	ErrInsufficientStock          = errors.New("insufficient stock")
	ErrEmptyCart                  = errors.New("cart is empty")
	ErrItemNotFound               = errors.New("cart item not found")
	ErrInvalidTransition          = errors.New("invalid order status transition")
	ErrPartialCancellationFailure = errors.New("order cancellation could not restore stock")
	ErrPersistence                = errors.New("persistence failure")
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrCartChanged      = errors.New("cart changed during checkout")
	ErrProductExists    = errors.New("product already exists")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidInput     = errors.New("invalid input")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrPartialCancellationFailure, "partial_cancellation_failure"},
	{ErrPersistence, "persistence_failure"},
	{ErrProductNotFound, "product_not_found"},
	{ErrInsufficientStock, "insufficient_stock"},
	{ErrEmptyCart, "empty_cart"},
	{ErrItemNotFound, "item_not_found"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrOrderNotFound, "order_not_found"},
	{ErrCustomerNotFound, "customer_not_found"},
	{ErrInvalidQuantity, "invalid_quantity"},
	{ErrCurrencyMismatch, "currency_mismatch"},
	{ErrCartChanged, "cart_changed"},
	{ErrProductExists, "product_exists"},
	{ErrInvalidPrice, "invalid_price"},
	{ErrInvalidInput, "invalid_input"},
}

// Kind names the first error kind err matches, "ok" for nil and "internal"
// for anything unknown. Wrapping kinds are checked before the causes they wrap.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return "internal"
}
