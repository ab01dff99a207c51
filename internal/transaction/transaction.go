package transaction

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
)

// Transaction is a dated, valued and categorized movement of money.
// The only implementations are Income and Expense; switch on Kind to tell
// them apart.
type Transaction interface {
	ID() uuid.UUID
	Kind() category.Kind
	Amount() decimal.Decimal
	Date() time.Time
	Description() string
	Category() category.Category
	Method() PaymentMethod
	String() string

	isTransaction()
}

// Params holds the input for NewIncome and NewExpense.
// A nil ID is replaced by a fresh one.
type Params struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Category    category.Category
	Method      PaymentMethod
}

type entry struct {
	id          uuid.UUID
	amount      decimal.Decimal
	date        time.Time
	description string
	category    category.Category
	method      PaymentMethod
}

func (e entry) ID() uuid.UUID { return e.id }
func (e entry) Amount() decimal.Decimal { return e.amount }
func (e entry) Date() time.Time { return e.date }
func (e entry) Description() string { return e.description }
func (e entry) Category() category.Category { return e.category }
func (e entry) Method() PaymentMethod { return e.method }
func (entry) isTransaction() {}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// formatAmount renders d in pt-BR notation, e.g. 1.234.567,89.
func formatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	_, cents, _ := strings.Cut(d.Abs().StringFixed(2), ".")

	return printer.Sprintf("%d,%s", d.IntPart(), cents)
}

func (e entry) format(label string) string {
	return fmt.Sprintf("%s(amount=%s, date=%s, description=%q, category=%s)",
		label,
		formatAmount(e.amount),
		e.date.Format(time.DateOnly),
		e.description,
		e.category.Name(),
	)
}

type Income struct{ entry }

func (Income) Kind() category.Kind { return category.KindIncome }
func (i Income) String() string { return i.format("Income") }

type Expense struct{ entry }

func (Expense) Kind() category.Kind { return category.KindExpense }
func (e Expense) String() string { return e.format("Expense") }

func NewIncome(p Params) (Income, error) {
	e, err := newEntry(p, category.KindIncome)
	if err != nil {
		return Income{}, err
	}

	return Income{e}, nil
}

// NewExpense validates p against its category. An amount above the
// category's monthly limit is rejected here rather than when the expense is
// added to a budget.
func NewExpense(p Params) (Expense, error) {
	e, err := newEntry(p, category.KindExpense)
	if err != nil {
		return Expense{}, err
	}

	if limit, ok := p.Category.Limit(); ok && e.amount.GreaterThan(limit) {
		return Expense{}, fmt.Errorf("%w: %s exceeds %s limit of %s",
			ErrCategoryLimitExceeded, e.amount.StringFixed(2), p.Category.Name(), limit.StringFixed(2))
	}

	return Expense{e}, nil
}

func newEntry(p Params, kind category.Kind) (entry, error) {
	if !p.Amount.IsPositive() {
		return entry{}, fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, p.Amount)
	}

	if !p.Amount.Equal(p.Amount.Round(2)) {
		return entry{}, fmt.Errorf("%w: %s has fractions of a cent", ErrInvalidAmount, p.Amount)
	}

	if p.Category.Kind() != kind {
		return entry{}, fmt.Errorf("%w: %s category %q used for %s",
			ErrCategoryMismatch, p.Category.Kind(), p.Category.Name(), kind)
	}

	if !p.Method.Valid() {
		return entry{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, p.Method)
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return entry{
		id:          id,
		amount:      p.Amount,
		date:        dayOf(p.Date),
		description: p.Description,
		category:    p.Category,
		method:      p.Method,
	}, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Before orders transactions by date.
func Before(a, b Transaction) bool {
	return a.Date().Before(b.Date())
}

// Equal reports whether a and b are interchangeable: same amount, date and
// description.
func Equal(a, b Transaction) bool {
	return a.Amount().Equal(b.Amount()) &&
		a.Date().Equal(b.Date()) &&
		a.Description() == b.Description()
}

// CombinedTotal adds the amounts of a and b. Kinds are ignored, so an income
// and an expense are summed as magnitudes rather than netted.
func CombinedTotal(a, b Transaction) decimal.Decimal {
	return a.Amount().Add(b.Amount())
}

// SortByDate sorts txs by date, keeping insertion order for equal dates.
func SortByDate[T Transaction](txs []T) {
	slices.SortStableFunc(txs, func(a, b T) int {
		return a.Date().Compare(b.Date())
	})
}

// Sum adds up the amounts of txs.
func Sum[T Transaction](txs []T) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount())
	}

	return total
}
