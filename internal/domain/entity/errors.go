package entity

import "errors"

var (
	ErrIDIsRequired       = errors.New("id is required")
	ErrInvalidID          = errors.New("invalid id format")
	ErrCustomerIsRequired = errors.New("customer id is required")
	ErrItemsAreRequired   = errors.New("order must contain at least one item")
	ErrQuantityMustBePos  = errors.New("quantity must be greater than zero")
	ErrPriceMustBePos     = errors.New("price must be greater than zero")
	ErrProductIDMustBePos = errors.New("product id must be greater than zero")
)
