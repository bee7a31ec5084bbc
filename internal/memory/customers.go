package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/checkout-core/internal/domain"
)

type Customers struct {
	mu       sync.RWMutex
	contacts map[string]domain.Contact
}

func NewCustomers() *Customers {
	return &Customers{contacts: make(map[string]domain.Contact)}
}

func (s *Customers) GetContact(_ context.Context, customerID string) (domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[customerID]
	if !ok {
		return domain.Contact{}, fmt.Errorf("customer[%s]: %w", customerID, domain.ErrCustomerNotFound)
	}

	return contact, nil
}

func (s *Customers) SaveContact(_ context.Context, contact domain.Contact) error {
	if contact.CustomerID == "" {
		return fmt.Errorf("contact.CustomerID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts[contact.CustomerID] = contact

	return nil
}
