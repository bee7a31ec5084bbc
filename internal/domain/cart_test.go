package domain_test

import (
	"testing"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestSnapshotLineItem(t *testing.T) {
	product := domain.Product{
		ID:    "p1",
		Name:  "Mug",
		Price: domain.NewMoney(decimal.RequireFromString("10.00"), currency.EUR),
		Stock: 3,
	}

	item, err := domain.SnapshotLineItem(product, 2)
	require.NoError(t, err)

	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Mug", item.Name)
	assert.True(t, item.Price.Equal(product.Price))
	assert.Equal(t, 2, item.Quantity)

	// later catalog changes do not leak into the snapshot
	product.Price = domain.NewMoney(decimal.RequireFromString("20.00"), currency.EUR)
	assert.Equal(t, "10", item.Price.Amount.String())

	_, err = domain.SnapshotLineItem(product, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestMoney(t *testing.T) {
	ten := domain.NewMoney(decimal.RequireFromString("10.00"), currency.USD)

	assert.Equal(t, "30.00 USD", ten.Mul(3).String())

	sum, err := ten.Add(ten)
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(20)))

	_, err = ten.Add(domain.NewMoney(decimal.NewFromInt(1), currency.EUR))
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	assert.True(t, domain.NewMoney(decimal.NewFromInt(-1), currency.USD).IsNegative())
}

func TestCart_FindProduct(t *testing.T) {
	cart := domain.Cart{
		OwnerID: "c-1",
		Items: []domain.LineItem{
			lineItem("p1", "1.00", currency.USD, 1),
			lineItem("p2", "2.00", currency.USD, 1),
		},
	}

	item, ok := cart.FindProduct("p2")
	require.True(t, ok)
	assert.Equal(t, "p2", item.ProductID)

	_, ok = cart.FindProduct("p3")
	assert.False(t, ok)
	assert.False(t, cart.IsEmpty())
	assert.True(t, domain.Cart{}.IsEmpty())
}

func TestQuantitiesByProduct(t *testing.T) {
	items := []domain.LineItem{
		lineItem("p2", "1.00", currency.USD, 3),
		lineItem("p1", "1.00", currency.USD, 1),
		lineItem("p2", "1.00", currency.USD, 2),
	}

	assert.Equal(t, []domain.ProductQuantity{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 5},
	}, domain.QuantitiesByProduct(items))

	assert.Empty(t, domain.QuantitiesByProduct(nil))
}

func TestMoney_FitsCents(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{amount: "10", want: true},
		{amount: "9.99", want: true},
		{amount: "9.990", want: true},
		{amount: "9.999", want: false},
		{amount: "0.001", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			m := domain.NewMoney(decimal.RequireFromString(tt.amount), currency.EUR)
			assert.Equal(t, tt.want, m.FitsCents())
		})
	}
}
