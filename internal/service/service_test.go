package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/memory"
	"github.com/nikolayk812/checkout-core/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	store    *memory.Store
	ledger   *faultyLedger
	orders   *faultyOrders
	observer *recordingObserver

	carts     *CartService
	checkout  *CheckoutService
	lifecycle *OrderService
	catalog   *CatalogService
	customers *CustomerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	f := &fixture{
		store:    store,
		ledger:   &faultyLedger{InventoryLedger: store.Inventory},
		orders:   &faultyOrders{OrderRepository: store.Orders},
		observer: &recordingObserver{},
	}

	f.carts = NewCartService(store.Inventory, store.Carts, log)
	f.checkout = NewCheckoutService(store.Carts, store.Customers, f.ledger, f.orders, log, WithCheckoutObserver(f.observer))
	f.lifecycle = NewOrderService(f.orders, log, WithOrderObserver(f.observer))
	f.catalog = NewCatalogService(store.Inventory, f.ledger, log)
	f.customers = NewCustomerService(store.Customers)

	return f
}

func (f *fixture) product(t *testing.T, id, price string, stock int) domain.Product {
	t.Helper()

	p, err := f.catalog.CreateProduct(t.Context(), domain.Product{
		ID:    id,
		Name:  gofakeit.ProductName(),
		Price: eur(price),
		Stock: stock,
	})
	require.NoError(t, err)

	return p
}

func (f *fixture) add(t *testing.T, customerID, productID string, qty int) domain.LineItem {
	t.Helper()

	item, err := f.carts.AddToCart(t.Context(), customerID, productID, qty)
	require.NoError(t, err)

	return item
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()

	n, err := f.store.Inventory.Available(t.Context(), productID)
	require.NoError(t, err)

	return n
}

func (f *fixture) cartSize(t *testing.T, customerID string) int {
	t.Helper()

	cart, err := f.carts.GetCart(t.Context(), customerID)
	require.NoError(t, err)

	return len(cart.Items)
}

func eur(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.EUR)
}

func randomCustomerID() string {
	return gofakeit.UUID()
}

// faultyLedger fails Reserve or Release for selected products.
type faultyLedger struct {
	port.InventoryLedger

	mu          sync.Mutex
	failReserve map[string]error
	failRelease map[string]error
	calls       int
}

func (l *faultyLedger) Reserve(ctx context.Context, productID string, qty int) error {
	if err := l.fault(l.failReserve, productID); err != nil {
		return err
	}
	return l.InventoryLedger.Reserve(ctx, productID, qty)
}

func (l *faultyLedger) Release(ctx context.Context, productID string, qty int) error {
	if err := l.fault(l.failRelease, productID); err != nil {
		return err
	}
	return l.InventoryLedger.Release(ctx, productID, qty)
}

func (l *faultyLedger) fault(faults map[string]error, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	return faults[productID]
}

func (l *faultyLedger) setReleaseFault(productID string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failRelease == nil {
		l.failRelease = make(map[string]error)
	}
	l.failRelease[productID] = err
}

func (l *faultyLedger) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.calls
}

type faultyOrders struct {
	port.OrderRepository

	createErr error
	updateErr error
	cancelErr error
}

func (o *faultyOrders) CreateFromCart(ctx context.Context, order domain.Order) error {
	if o.createErr != nil {
		return o.createErr
	}
	return o.OrderRepository.CreateFromCart(ctx, order)
}

func (o *faultyOrders) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus, at time.Time) error {
	if o.updateErr != nil {
		return o.updateErr
	}
	return o.OrderRepository.UpdateStatus(ctx, orderID, from, to, at)
}

func (o *faultyOrders) Cancel(ctx context.Context, orderID uuid.UUID, at time.Time) (domain.Order, error) {
	if o.cancelErr != nil {
		return domain.Order{}, o.cancelErr
	}
	return o.OrderRepository.Cancel(ctx, orderID, at)
}

type compensationRecord struct {
	released, failed int
}

type recordingObserver struct {
	mu            sync.Mutex
	checkouts     []string
	compensations []compensationRecord
	transitions   []string
}

func (o *recordingObserver) ObserveCheckout(err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.checkouts = append(o.checkouts, domain.Kind(err))
}

func (o *recordingObserver) ObserveCompensation(released, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.compensations = append(o.compensations, compensationRecord{released: released, failed: failed})
}

func (o *recordingObserver) ObserveTransition(to domain.OrderStatus, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, string(to)+":"+domain.Kind(err))
}
