package port

import (
	"context"

	"github.com/nikolayk812/checkout-core/internal/domain"
)

type CustomerRepository interface {
	GetContact(ctx context.Context, customerID string) (domain.Contact, error)
	SaveContact(ctx context.Context, contact domain.Contact) error
}
