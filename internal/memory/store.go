package memory

import "github.com/nikolayk812/checkout-core/internal/port"

var (
	_ port.InventoryLedger    = (*Inventory)(nil)
	_ port.CatalogRepository  = (*Inventory)(nil)
	_ port.CartRepository     = (*Carts)(nil)
	_ port.OrderRepository    = (*Orders)(nil)
	_ port.CustomerRepository = (*Customers)(nil)
)

type Store struct {
	Inventory *Inventory
	Carts     *Carts
	Orders    *Orders
	Customers *Customers
}

func NewStore() *Store {
	carts := NewCarts()
	inventory := NewInventory()

	return &Store{
		Inventory: inventory,
		Carts:     carts,
		Orders:    NewOrders(carts, inventory),
		Customers: NewCustomers(),
	}
}
