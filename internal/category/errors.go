package category

import "errors"

var ErrInvalidCategory = errors.New("invalid category")
