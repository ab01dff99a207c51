package budget_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

var today = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

func income(t *testing.T, amount int64) transaction.Income {
	t.Helper()

	c, err := category.New("Salário", category.KindIncome)
	require.NoError(t, err)

	in, err := transaction.NewIncome(transaction.Params{
		Amount: decimal.NewFromInt(amount), Date: today, Description: "Salário",
		Category: c, Method: transaction.PaymentPix,
	})
	require.NoError(t, err)

	return in
}

func expense(t *testing.T, c category.Category, amount int64) transaction.Expense {
	t.Helper()

	e, err := transaction.NewExpense(transaction.Params{
		Amount: decimal.NewFromInt(amount), Date: today, Description: "Almoço",
		Category: c, Method: transaction.PaymentCash,
	})
	require.NoError(t, err)

	return e
}

func food(t *testing.T) category.Category {
	t.Helper()

	c, err := category.NewWithLimit("Alimentação", category.KindExpense, decimal.NewFromInt(100))
	require.NoError(t, err)

	return c
}

func TestNewMonthly(t *testing.T) {
	type testCase struct {
		name    string
		year    int
		month   int
		wantErr bool
	}

	tests := []testCase{
		{name: "January", year: 2026, month: 1},
		{name: "December", year: 2026, month: 12},
		{name: "MonthZero", year: 2026, month: 0, wantErr: true},
		{name: "MonthThirteen", year: 2026, month: 13, wantErr: true},
		{name: "YearZero", year: 0, month: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := budget.NewMonthly(tt.year, tt.month)

			if tt.wantErr {
				assert.ErrorIs(t, err, budget.ErrInvalidPeriod)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.True(t, got.Balance().IsZero())
		})
	}
}

func TestMonthly_Balance(t *testing.T) {
	b, err := budget.NewMonthly(2026, 1)
	require.NoError(t, err)

	assert.True(t, b.AddIncome(income(t, 200)).Equal(decimal.NewFromInt(200)))

	bal, err := b.AddExpense(expense(t, food(t), 50))
	require.NoError(t, err)

	assert.True(t, bal.Equal(decimal.NewFromInt(150)))
	assert.True(t, b.Balance().Equal(decimal.NewFromInt(150)))
	assert.True(t, b.Balance().Equal(b.Balance()), "balance is a pure read")
	assert.Equal(t, "2026-01", b.Period())
}

func TestMonthly_InsufficientBalance(t *testing.T) {
	b, err := budget.NewMonthly(2026, 1)
	require.NoError(t, err)

	b.AddIncome(income(t, 50))

	bal, err := b.AddExpense(expense(t, food(t), 60))
	require.ErrorIs(t, err, budget.ErrInsufficientBalance)

	assert.True(t, bal.Equal(decimal.NewFromInt(50)))
	assert.Empty(t, b.Expenses())
	assert.True(t, b.Balance().Equal(decimal.NewFromInt(50)))
}

func TestMonthly_ExpenseToZero(t *testing.T) {
	b, err := budget.NewMonthly(2026, 1)
	require.NoError(t, err)

	b.AddIncome(income(t, 100))

	bal, err := b.AddExpense(expense(t, food(t), 100))
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestMonthly_TryAddExpense(t *testing.T) {
	b, err := budget.NewMonthly(2026, 2)
	require.NoError(t, err)

	b.AddIncome(income(t, 80))
	c := food(t)

	ok := b.TryAddExpense(expense(t, c, 30))
	require.NoError(t, ok.Err)
	assert.True(t, ok.Accepted)
	assert.True(t, ok.PreviousBalance.Equal(decimal.NewFromInt(80)))
	assert.True(t, ok.Balance.Equal(decimal.NewFromInt(50)))

	rejected := b.TryAddExpense(expense(t, c, 60))
	assert.ErrorIs(t, rejected.Err, budget.ErrInsufficientBalance)
	assert.False(t, rejected.Accepted)
	assert.True(t, rejected.PreviousBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, rejected.Balance.Equal(decimal.NewFromInt(-10)))

	assert.Len(t, b.Expenses(), 1)
	assert.True(t, b.SpentIn(c).Equal(decimal.NewFromInt(30)))
	assert.True(t, b.TotalExpenses().Equal(decimal.NewFromInt(30)))
}

func TestMonthly_RejectionNeverMutates(t *testing.T) {
	c := food(t)

	for _, amount := range []int64{1, 10, 51, 99, 100} {
		b, err := budget.NewMonthly(2026, 3)
		require.NoError(t, err)

		b.AddIncome(income(t, 50))
		before := b.Expenses()

		_, err = b.AddExpense(expense(t, c, amount))
		if amount > 50 {
			assert.ErrorIs(t, err, budget.ErrInsufficientBalance)
			assert.Equal(t, before, b.Expenses())

			continue
		}

		assert.NoError(t, err)
		assert.False(t, b.Balance().IsNegative())
	}
}

func TestMonthly_CopiesAreIndependent(t *testing.T) {
	b, err := budget.NewMonthly(2026, 4)
	require.NoError(t, err)

	b.AddIncome(income(t, 10))

	incomes := b.Incomes()
	incomes[0] = income(t, 999)

	assert.True(t, b.TotalIncome().Equal(decimal.NewFromInt(10)))
}
