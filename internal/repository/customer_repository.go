package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/db"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type customerRepository struct {
	q *db.Queries
}

func NewCustomer(pool *pgxpool.Pool) port.CustomerRepository {
	return &customerRepository{
		q: db.New(pool),
	}
}

func (r *customerRepository) GetContact(ctx context.Context, customerID string) (domain.Contact, error) {
	if customerID == "" {
		return domain.Contact{}, fmt.Errorf("customerID is empty")
	}

	row, err := r.q.GetCustomer(ctx, customerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, fmt.Errorf("customer[%s]: %w", customerID, domain.ErrCustomerNotFound)
	}
	if err != nil {
		return domain.Contact{}, fmt.Errorf("q.GetCustomer: %w", err)
	}

	return domain.Contact{
		CustomerID: row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Phone:      row.Phone,
		Address:    row.Address,
	}, nil
}

func (r *customerRepository) SaveContact(ctx context.Context, contact domain.Contact) error {
	if contact.CustomerID == "" {
		return fmt.Errorf("contact.CustomerID is empty")
	}

	err := r.q.UpsertCustomer(ctx, db.UpsertCustomerParams{
		ID:      contact.CustomerID,
		Name:    contact.Name,
		Email:   contact.Email,
		Phone:   contact.Phone,
		Address: contact.Address,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertCustomer: %w", err)
	}

	return nil
}
