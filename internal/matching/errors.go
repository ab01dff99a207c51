package matching

import "errors"

var (
	ErrInvalidRule     = errors.New("invalid rule")
	ErrUnknownCategory = errors.New("unknown category")
)
