package budget

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

// Monthly aggregates the incomes and expenses of one year/month.
// Its balance never goes negative: an expense that would overdraw it is
// rejected and not recorded.
//
// A Monthly is not safe for concurrent use.
type Monthly struct {
	year     int
	month    int
	incomes  []transaction.Income
	expenses []transaction.Expense
}

// ExpenseOutcome describes an attempt to add an expense. When the expense is
// rejected, Balance holds the balance the expense would have produced.
type ExpenseOutcome struct {
	Expense         transaction.Expense
	PreviousBalance decimal.Decimal
	Balance         decimal.Decimal
	Accepted        bool
	Err             error
}

func NewMonthly(year, month int) (*Monthly, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d not in 1..12", ErrInvalidPeriod, month)
	}

	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}

	return &Monthly{year: year, month: month}, nil
}

func (b *Monthly) Year() int { return b.year }
func (b *Monthly) Month() int { return b.month }

// Period formats the budget's year and month as "2006-01".
func (b *Monthly) Period() string {
	return FormatPeriod(b.year, b.month)
}

func FormatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// AddIncome records i and returns the new balance.
func (b *Monthly) AddIncome(i transaction.Income) decimal.Decimal {
	b.incomes = append(b.incomes, i)
	return b.Balance()
}

// AddExpense records e and returns the new balance, or fails with
// ErrInsufficientBalance leaving the budget untouched.
func (b *Monthly) AddExpense(e transaction.Expense) (decimal.Decimal, error) {
	out := b.TryAddExpense(e)
	if out.Err != nil {
		return b.Balance(), out.Err
	}

	return out.Balance, nil
}

// TryAddExpense is AddExpense reporting the full outcome of the attempt.
func (b *Monthly) TryAddExpense(e transaction.Expense) ExpenseOutcome {
	prev := b.Balance()
	next := prev.Sub(e.Amount())

	out := ExpenseOutcome{
		Expense:         e,
		PreviousBalance: prev,
		Balance:         next,
	}

	if next.IsNegative() {
		out.Err = fmt.Errorf("%w: balance %s, expense %s",
			ErrInsufficientBalance, prev.StringFixed(2), e.Amount().StringFixed(2))

		return out
	}

	b.expenses = append(b.expenses, e)
	out.Accepted = true

	return out
}

// Balance is total income minus total expenses.
func (b *Monthly) Balance() decimal.Decimal {
	return b.TotalIncome().Sub(b.TotalExpenses())
}

func (b *Monthly) TotalIncome() decimal.Decimal {
	return transaction.Sum(b.incomes)
}

func (b *Monthly) TotalExpenses() decimal.Decimal {
	return transaction.Sum(b.expenses)
}

// SpentIn sums the recorded expenses filed under c.
func (b *Monthly) SpentIn(c category.Category) decimal.Decimal {
	total := decimal.Zero

	for _, e := range b.expenses {
		if e.Category().Equal(c) {
			total = total.Add(e.Amount())
		}
	}

	return total
}

func (b *Monthly) Incomes() []transaction.Income {
	return slices.Clone(b.incomes)
}

func (b *Monthly) Expenses() []transaction.Expense {
	return slices.Clone(b.expenses)
}
