package repository

import (
	"fmt"

	"github.com/nikolayk812/checkout-core/internal/db"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func mapMoneyToDomain(amount decimal.Decimal, code string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	price, err := mapMoneyToDomain(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapMoneyToDomain: %w", err)
	}

	return domain.Product{
		ID:        row.ID,
		Name:      row.Name,
		Price:     price,
		Stock:     int(row.Stock),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.LineItem, error) {
	price, err := mapMoneyToDomain(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("mapMoneyToDomain: %w", err)
	}

	return domain.LineItem{
		ID:        row.ID,
		ProductID: row.ProductID,
		Name:      row.Name,
		Price:     price,
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.LineItem, error) {
	var items []domain.LineItem

	for _, row := range rows {
		item, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapOrderItemToDomain(row db.OrderItem) (domain.LineItem, error) {
	price, err := mapMoneyToDomain(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("mapMoneyToDomain: %w", err)
	}

	return domain.LineItem{
		ID:        row.ID,
		ProductID: row.ProductID,
		Name:      row.Name,
		Price:     price,
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapOrderToDomain(row db.Order, itemRows []db.OrderItem) (domain.Order, error) {
	total, err := mapMoneyToDomain(row.TotalAmount, row.TotalCurrency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapMoneyToDomain: %w", err)
	}

	status, err := domain.ParseOrderStatus(row.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ParseOrderStatus: %w", err)
	}

	items := make([]domain.LineItem, 0, len(itemRows))
	for _, itemRow := range itemRows {
		item, err := mapOrderItemToDomain(itemRow)
		if err != nil {
			return domain.Order{}, fmt.Errorf("mapOrderItemToDomain: %w", err)
		}
		items = append(items, item)
	}

	return domain.Order{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Contact: domain.Contact{
			CustomerID: row.CustomerID,
			Name:       row.ContactName,
			Email:      row.ContactEmail,
			Phone:      row.ContactPhone,
			Address:    row.ContactAddress,
		},
		Items:     items,
		Total:     total,
		Status:    status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
