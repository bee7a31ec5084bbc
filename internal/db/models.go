package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string
	Name          string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Stock         int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Customer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}

type Order struct {
	ID             uuid.UUID
	CustomerID     string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	ContactAddress string
	TotalAmount    decimal.Decimal
	TotalCurrency  string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OrderItem struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Position      int32
	ProductID     string
	Name          string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Quantity      int32
	CreatedAt     time.Time
}
