package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found or is inactive.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput indicates a request failed validation before any write.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientStock indicates requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart indicates checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPermissionDenied indicates the caller may not perform the operation.
	ErrPermissionDenied = errors.New("permission denied")
)

// StockError carries the context of a failed stock check or reservation.
// It unwraps to ErrInsufficientStock so callers can match the kind with
// errors.Is while the message names the product and quantities involved.
type StockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
	InCart      int
}

func (e *StockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	if e.InCart > 0 {
		return fmt.Sprintf("insufficient stock for %q: requested %d with %d already in cart, only %d available", name, e.Requested, e.InCart, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %q: requested %d, only %d available", name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}
