package order

import "errors"

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidDiscount  = errors.New("discount must be between 0 and 100 percent")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidPriority  = errors.New("priority must be between 0 and 10")
	ErrInvalidPayment   = errors.New("paid amounts must not be negative")
	ErrLineItemNotFound = errors.New("line item not found")
)
