package domain

import "time"

// Product is a catalog entry together with its stock counter.
// Stock is only changed through an inventory ledger.
type Product struct {
	ID    string
	Name  string
	Price Money
	Stock int

	CreatedAt time.Time
	UpdatedAt time.Time
}
