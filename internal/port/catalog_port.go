package port

import (
	"context"

	"github.com/nikolayk812/checkout-core/internal/domain"
)

type CatalogRepository interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) error
	UpdatePrice(ctx context.Context, productID string, price domain.Money) error
}
