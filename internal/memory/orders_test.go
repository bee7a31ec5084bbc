package memory

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func testItem(productID string, qty int) domain.LineItem {
	return domain.LineItem{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      productID,
		Price:     domain.NewMoney(decimal.NewFromInt(3), currency.USD),
		Quantity:  qty,
	}
}

func TestCarts_AddItem(t *testing.T) {
	carts := NewCarts()
	ctx := t.Context()

	first, err := carts.AddItem(ctx, "c1", testItem("p1", 1))
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "c1", testItem("p2", 1))
	require.NoError(t, err)

	repeat := testItem("p1", 2)
	repeat.Price = domain.NewMoney(decimal.NewFromInt(99), currency.USD)
	merged, err := carts.AddItem(ctx, "c1", repeat)
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)
	assert.True(t, first.Price.Equal(merged.Price))

	cart, err := carts.GetCart(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "p1", cart.Items[0].ProductID)
	assert.Equal(t, "p2", cart.Items[1].ProductID)

	_, err = carts.AddItem(ctx, "", testItem("p1", 1))
	assert.EqualError(t, err, "ownerID is empty")

	_, err = carts.AddItem(ctx, "c1", testItem("p1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCarts_AddItem_QuantityLimit(t *testing.T) {
	tests := []struct {
		name         string
		existing     int
		add          int
		wantQuantity int
		wantError    error
	}{
		{name: "merge up to int32 max: ok", existing: math.MaxInt32 - 2, add: 2, wantQuantity: math.MaxInt32},
		{name: "merge past int32 max: invalid", existing: math.MaxInt32 - 1, add: 2, wantQuantity: math.MaxInt32 - 1, wantError: domain.ErrInvalidQuantity},
		{name: "merge max int: invalid", existing: 1, add: math.MaxInt, wantQuantity: 1, wantError: domain.ErrInvalidQuantity},
		{name: "new line past int32 max: invalid", add: math.MaxInt32 + 1, wantError: domain.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := NewCarts()
			ctx := t.Context()

			if tt.existing > 0 {
				_, err := carts.AddItem(ctx, "c1", testItem("p1", tt.existing))
				require.NoError(t, err)
			}

			_, err := carts.AddItem(ctx, "c1", testItem("p1", tt.add))
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
			}

			cart, err := carts.GetCart(ctx, "c1")
			require.NoError(t, err)
			if tt.wantQuantity == 0 {
				assert.Empty(t, cart.Items)
				return
			}
			require.Len(t, cart.Items, 1)
			assert.Equal(t, tt.wantQuantity, cart.Items[0].Quantity)
		})
	}
}

func TestCarts_DeleteItem(t *testing.T) {
	carts := NewCarts()
	ctx := t.Context()

	item, err := carts.AddItem(ctx, "c1", testItem("p1", 1))
	require.NoError(t, err)

	deleted, err := carts.DeleteItem(ctx, "c1", item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = carts.DeleteItem(ctx, "c1", item.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOrders_CreateFromCart(t *testing.T) {
	store := NewStore()
	ctx := t.Context()

	_, err := store.Carts.AddItem(ctx, "c1", testItem("p1", 1))
	require.NoError(t, err)
	_, err = store.Carts.AddItem(ctx, "c1", testItem("p2", 2))
	require.NoError(t, err)

	cart, err := store.Carts.GetCart(ctx, "c1")
	require.NoError(t, err)

	order, err := domain.NewOrder(domain.Contact{CustomerID: "c1"}, cart.Items, time.Now())
	require.NoError(t, err)

	require.NoError(t, store.Orders.CreateFromCart(ctx, order))

	after, err := store.Carts.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, after.Items)

	stored, err := store.Orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Items, stored.Items)

	// the same items cannot move twice
	err = store.Orders.CreateFromCart(ctx, order)
	assert.ErrorIs(t, err, domain.ErrCartChanged)
}

func TestOrders_CreateFromCart_CommitFails(t *testing.T) {
	carts := NewCarts()
	ctx := t.Context()

	item, err := carts.AddItem(ctx, "c1", testItem("p1", 1))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = carts.transfer("c1", []domain.LineItem{item}, func() error { return boom })
	require.ErrorIs(t, err, boom)

	cart, err := carts.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestOrders_UpdateStatus(t *testing.T) {
	store := NewStore()
	ctx := t.Context()

	_, err := store.Carts.AddItem(ctx, "c1", testItem("p1", 1))
	require.NoError(t, err)
	cart, err := store.Carts.GetCart(ctx, "c1")
	require.NoError(t, err)

	order, err := domain.NewOrder(domain.Contact{CustomerID: "c1"}, cart.Items, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Orders.CreateFromCart(ctx, order))

	require.NoError(t, store.Orders.UpdateStatus(ctx, order.ID, domain.OrderStatusNew, domain.OrderStatusCancelled, time.Now()))

	err = store.Orders.UpdateStatus(ctx, order.ID, domain.OrderStatusNew, domain.OrderStatusFinished, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = store.Orders.UpdateStatus(ctx, uuid.New(), domain.OrderStatusNew, domain.OrderStatusFinished, time.Now())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	orders, err := store.Orders.ListOrders(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusCancelled, orders[0].Status)
}

// storeWithOrder reserves items out of fresh stock and turns them into an
// order for c1.
func storeWithOrder(t *testing.T, stocks map[string]int, items ...domain.LineItem) (*Store, domain.Order) {
	t.Helper()

	carts := NewCarts()
	inventory := setupInventory(t, stocks)
	store := &Store{
		Inventory: inventory,
		Carts:     carts,
		Orders:    NewOrders(carts, inventory),
		Customers: NewCustomers(),
	}
	ctx := t.Context()

	for _, item := range items {
		_, err := store.Carts.AddItem(ctx, "c1", item)
		require.NoError(t, err)
		if _, ok := stocks[item.ProductID]; ok {
			require.NoError(t, store.Inventory.Reserve(ctx, item.ProductID, item.Quantity))
		}
	}

	cart, err := store.Carts.GetCart(ctx, "c1")
	require.NoError(t, err)
	order, err := domain.NewOrder(domain.Contact{CustomerID: "c1"}, cart.Items, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Orders.CreateFromCart(ctx, order))

	return store, order
}

func TestOrders_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		stocks     map[string]int
		items      []domain.LineItem
		refill     map[string]int
		wantError  error
		wantStatus domain.OrderStatus
		wantStock  map[string]int
	}{
		{
			name:       "all items back: ok",
			stocks:     map[string]int{"p1": 10, "p2": 10},
			items:      []domain.LineItem{testItem("p1", 2), testItem("p2", 3)},
			wantStatus: domain.OrderStatusCancelled,
			wantStock:  map[string]int{"p1": 10, "p2": 10},
		},
		{
			name:       "missing product: nothing released",
			stocks:     map[string]int{"p1": 10},
			items:      []domain.LineItem{testItem("p1", 2), testItem("gone", 1)},
			wantError:  domain.ErrPartialCancellationFailure,
			wantStatus: domain.OrderStatusNew,
			wantStock:  map[string]int{"p1": 8},
		},
		{
			name:       "stock overflow: nothing released",
			stocks:     map[string]int{"p1": 10, "p2": math.MaxInt32},
			items:      []domain.LineItem{testItem("p1", 2), testItem("p2", 1)},
			refill:     map[string]int{"p2": 1},
			wantError:  domain.ErrInvalidQuantity,
			wantStatus: domain.OrderStatusNew,
			wantStock:  map[string]int{"p1": 8, "p2": math.MaxInt32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, order := storeWithOrder(t, tt.stocks, tt.items...)
			ctx := t.Context()

			for id, qty := range tt.refill {
				require.NoError(t, store.Inventory.Release(ctx, id, qty))
			}

			cancelled, err := store.Orders.Cancel(ctx, order.ID, time.Now())
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				assert.ErrorIs(t, err, domain.ErrPartialCancellationFailure)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, cancelled.Status)
				assert.Equal(t, order.Items, cancelled.Items)
			}

			stored, err := store.Orders.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)

			for id, want := range tt.wantStock {
				stock, err := store.Inventory.Available(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, want, stock, id)
			}
		})
	}
}

func TestOrders_Cancel_Transitions(t *testing.T) {
	store, order := storeWithOrder(t, map[string]int{"p1": 5}, testItem("p1", 1), testItem("p1", 2))
	ctx := t.Context()

	_, err := store.Orders.Cancel(ctx, order.ID, time.Now())
	require.NoError(t, err)

	stock, err := store.Inventory.Available(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, stock)

	_, err = store.Orders.Cancel(ctx, order.ID, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = store.Orders.Cancel(ctx, uuid.New(), time.Now())
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	stock, err = store.Inventory.Available(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, stock)
}

func TestOrders_Cancel_Concurrent(t *testing.T) {
	store, order := storeWithOrder(t, map[string]int{"p1": 10, "p2": 10}, testItem("p1", 2), testItem("p2", 3))

	const callers = 16

	var (
		wg        sync.WaitGroup
		cancelled atomic.Int32
	)

	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := store.Orders.Cancel(t.Context(), order.ID, time.Now())
			if err == nil {
				cancelled.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, cancelled.Load())
	for _, id := range []string{"p1", "p2"} {
		stock, err := store.Inventory.Available(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, 10, stock, id)
	}
}
