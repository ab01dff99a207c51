// Package importer reads bank statement exports into rows that can be
// recorded as incomes and expenses.
package importer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
)

var ErrUnknownFormat = errors.New("unknown statement format")

// Row is one movement read from a statement. Amount is always positive; Kind
// carries the direction.
type Row struct {
	Line        int
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        category.Kind
}
