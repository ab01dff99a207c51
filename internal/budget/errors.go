package budget

import "errors"

var (
	ErrInvalidPeriod       = errors.New("invalid period")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
