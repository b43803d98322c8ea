package model

import "errors"

// Cart and checkout failures. All of these are recoverable conditions: the
// mutation or submission is rejected and the cart is left as it was.
var (
	ErrStockInsufficient    = errors.New("insufficient stock for requested quantity")
	ErrLineNotFound         = errors.New("cart line not found")
	ErrQuantityBelowMinimum = errors.New("quantity cannot go below 1")
	ErrInvalidSaleType      = errors.New("invalid sale type")
	ErrNegativeUnitPrice    = errors.New("unit price cannot be negative")
	ErrInvalidDiscount      = errors.New("invalid discount")
	ErrClearNotConfirmed    = errors.New("cart clear was not confirmed")
	ErrMissingCustomer      = errors.New("a customer is required before checkout")
	ErrEmptyCart            = errors.New("cart has no lines")
	ErrCheckoutInProgress   = errors.New("a checkout is already in progress for this session")
	ErrSubmissionFailed     = errors.New("order submission failed")
)
