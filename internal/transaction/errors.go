package transaction

import "errors"

var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrCategoryMismatch      = errors.New("category kind does not match transaction")
	ErrCategoryLimitExceeded = errors.New("category limit exceeded")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
)
