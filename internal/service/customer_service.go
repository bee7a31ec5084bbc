package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
)

type CustomerService struct {
	customers port.CustomerRepository
}

func NewCustomerService(customers port.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// SaveContact stores the details copied into future orders. Existing orders
// keep their own snapshot.
func (s *CustomerService) SaveContact(ctx context.Context, contact domain.Contact) error {
	if contact.CustomerID == "" {
		return fmt.Errorf("contact.CustomerID is empty")
	}

	if err := s.customers.SaveContact(ctx, contact); err != nil {
		return fmt.Errorf("customers.SaveContact: %w", err)
	}

	return nil
}

func (s *CustomerService) GetContact(ctx context.Context, customerID string) (domain.Contact, error) {
	contact, err := s.customers.GetContact(ctx, customerID)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("customers.GetContact: %w", err)
	}

	return contact, nil
}
