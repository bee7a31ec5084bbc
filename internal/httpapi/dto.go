package httpapi

import (
	"fmt"
	"time"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type lineItemDTO struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     moneyDTO  `json:"price"`
	Quantity  int       `json:"quantity"`
	Subtotal  moneyDTO  `json:"subtotal"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type cartDTO struct {
	CustomerID string        `json:"customer_id"`
	Items      []lineItemDTO `json:"items"`
}

type contactDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type orderDTO struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Contact    contactDTO    `json:"contact"`
	Items      []lineItemDTO `json:"items"`
	Total      moneyDTO      `json:"total"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type productDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     moneyDTO  `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createProductRequest struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price moneyDTO `json:"price"`
	Stock int      `json:"stock"`
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func toMoneyDTO(m domain.Money) moneyDTO {
	return moneyDTO{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

func (m moneyDTO) toDomain() (domain.Money, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("amount %q: %w", m.Amount, err)
	}

	unit, err := currency.ParseISO(m.Currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency %q: %w", m.Currency, err)
	}

	return domain.NewMoney(amount, unit), nil
}

func toLineItemDTOs(items []domain.LineItem) []lineItemDTO {
	out := make([]lineItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, lineItemDTO{
			ID:        item.ID.String(),
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     toMoneyDTO(item.Price),
			Quantity:  item.Quantity,
			Subtotal:  toMoneyDTO(item.Subtotal()),
			CreatedAt: item.CreatedAt,
		})
	}
	return out
}

func toCartDTO(cart domain.Cart) cartDTO {
	return cartDTO{
		CustomerID: cart.OwnerID,
		Items:      toLineItemDTOs(cart.Items),
	}
}

func toContactDTO(c domain.Contact) contactDTO {
	return contactDTO{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

func (c contactDTO) toDomain(customerID string) domain.Contact {
	return domain.Contact{
		CustomerID: customerID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
	}
}

func toOrderDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:         o.ID.String(),
		CustomerID: o.CustomerID,
		Contact:    toContactDTO(o.Contact),
		Items:      toLineItemDTOs(o.Items),
		Total:      toMoneyDTO(o.Total),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{
		ID:        p.ID,
		Name:      p.Name,
		Price:     toMoneyDTO(p.Price),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
