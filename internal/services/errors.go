package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidAccommodation  = errors.New("accommodation not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrAccommodationNotFound = errors.New("no accommodation matches the qr code")
)

// PersistenceError wraps a storage failure. It is surfaced, never
// silently retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
