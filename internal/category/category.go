package category

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tells whether a category classifies money coming in or going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts the canonical tags and their Portuguese aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "receita":
		return KindIncome, nil
	case "expense", "despesa":
		return KindExpense, nil
	}

	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidCategory, s)
}

// Category is an immutable classification for incomes or expenses.
// Expense categories may carry a monthly spending limit.
type Category struct {
	name     string
	kind     Kind
	limit    decimal.Decimal
	hasLimit bool
}

// New builds a category without a monthly limit.
func New(name string, kind Kind) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: empty name", ErrInvalidCategory)
	}

	if !kind.Valid() {
		return Category{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidCategory, kind)
	}

	return Category{name: name, kind: kind}, nil
}

// NewWithLimit builds an expense category capped at limit per month.
func NewWithLimit(name string, kind Kind, limit decimal.Decimal) (Category, error) {
	c, err := New(name, kind)
	if err != nil {
		return Category{}, err
	}

	if kind == KindIncome {
		return Category{}, fmt.Errorf("%w: income category %q cannot have a limit", ErrInvalidCategory, name)
	}

	if !limit.IsPositive() {
		return Category{}, fmt.Errorf("%w: limit must be positive, got %s", ErrInvalidCategory, limit)
	}

	if !limit.Equal(limit.Round(2)) {
		return Category{}, fmt.Errorf("%w: limit %s has fractions of a cent", ErrInvalidCategory, limit)
	}

	c.limit = limit
	c.hasLimit = true

	return c, nil
}

func (c Category) Name() string { return c.name }
func (c Category) Kind() Kind { return c.kind }

// Limit returns the monthly limit and whether one is set.
func (c Category) Limit() (decimal.Decimal, bool) {
	return c.limit, c.hasLimit
}

// Equal reports whether both categories share name and kind. The limit is not
// part of a category's identity.
func (c Category) Equal(other Category) bool {
	return c.name == other.name && c.kind == other.kind
}

// IsZero reports whether c was never constructed.
func (c Category) IsZero() bool {
	return c.name == "" && c.kind == ""
}

func (c Category) String() string {
	if c.hasLimit {
		return fmt.Sprintf("Category(%s, %s, limit=%s)", c.name, c.kind, c.limit.StringFixed(2))
	}

	return fmt.Sprintf("Category(%s, %s)", c.name, c.kind)
}
