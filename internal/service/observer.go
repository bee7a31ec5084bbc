package service

import (
	"time"

	"github.com/nikolayk812/checkout-core/internal/domain"
)

// Observer receives outcomes of the checkout and order lifecycle operations.
type Observer interface {
	ObserveCheckout(err error, elapsed time.Duration)
	ObserveCompensation(released, failed int)
	ObserveTransition(to domain.OrderStatus, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveCheckout(error, time.Duration)        {}
func (nopObserver) ObserveCompensation(int, int)                {}
func (nopObserver) ObserveTransition(domain.OrderStatus, error) {}
