package repository_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/nikolayk812/checkout-core/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type inventoryRepositorySuite struct {
	suite.Suite

	ledger  port.InventoryLedger
	catalog port.CatalogRepository
	pool    *pgxpool.Pool
}

func TestInventoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(inventoryRepositorySuite))
}

func (suite *inventoryRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.ledger = repository.NewInventory(suite.pool)
	suite.catalog = repository.NewCatalog(suite.pool)
}

func (suite *inventoryRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *inventoryRepositorySuite) TearDownTest() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE products CASCADE")
	suite.NoError(err)
}

func (suite *inventoryRepositorySuite) TestReserve() {
	tests := []struct {
		name      string
		stock     int
		qty       int
		unknown   bool
		wantStock int
		wantError error
	}{
		{
			name:      "reserve part of stock: ok",
			stock:     10,
			qty:       4,
			wantStock: 6,
		},
		{
			name:      "reserve last unit: ok",
			stock:     1,
			qty:       1,
			wantStock: 0,
		},
		{
			name:      "reserve more than stock: insufficient",
			stock:     2,
			qty:       3,
			wantStock: 2,
			wantError: domain.ErrInsufficientStock,
		},
		{
			name:      "reserve unknown product: not found",
			qty:       1,
			unknown:   true,
			wantError: domain.ErrProductNotFound,
		},
		{
			name:      "reserve zero: invalid quantity",
			stock:     5,
			qty:       0,
			wantStock: 5,
			wantError: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			productID := gofakeit.UUID()
			if !tt.unknown {
				productID = suite.createProduct(tt.stock)
			}

			err := suite.ledger.Reserve(ctx, productID, tt.qty)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
			}

			if tt.unknown {
				return
			}

			stock, err := suite.ledger.Available(ctx, productID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, stock)
		})
	}
}

func (suite *inventoryRepositorySuite) TestRelease() {
	t := suite.T()
	ctx := t.Context()

	productID := suite.createProduct(3)

	require.NoError(t, suite.ledger.Release(ctx, productID, 7))

	stock, err := suite.ledger.Available(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 10, stock)

	err = suite.ledger.Release(ctx, gofakeit.UUID(), 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func (suite *inventoryRepositorySuite) TestConcurrentReserve() {
	t := suite.T()
	ctx := t.Context()

	productID := suite.createProduct(100)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
	)

	// 30 buyers of 5 units each compete for 100 units: exactly 20 win
	for range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := suite.ledger.Reserve(ctx, productID, 5); err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), succeeded.Load())

	stock, err := suite.ledger.Available(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func (suite *inventoryRepositorySuite) TestCatalog() {
	t := suite.T()
	ctx := t.Context()

	product := randomProduct(5)
	require.NoError(t, suite.catalog.CreateProduct(ctx, product))

	err := suite.catalog.CreateProduct(ctx, product)
	require.ErrorIs(t, err, domain.ErrProductExists)

	newPrice := domain.NewMoney(decimal.RequireFromString("20.00"), currency.EUR)
	require.NoError(t, suite.catalog.UpdatePrice(ctx, product.ID, newPrice))

	got, err := suite.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, got.Name)
	assert.True(t, newPrice.Equal(got.Price))
	assert.Equal(t, 5, got.Stock)

	err = suite.catalog.UpdatePrice(ctx, gofakeit.UUID(), newPrice)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = suite.catalog.GetProduct(ctx, gofakeit.UUID())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func (suite *inventoryRepositorySuite) createProduct(stock int) string {
	product := randomProduct(stock)
	suite.Require().NoError(suite.catalog.CreateProduct(suite.T().Context(), product))
	return product.ID
}
