// Package alert turns the outcome of an expense insertion into advisory
// alerts. Evaluation is pure: it never touches the budget it reports on.
package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/budget"
)

type Kind string

const (
	KindHighValue           Kind = "high_value"
	KindDeficit             Kind = "deficit"
	KindCategoryLimit       Kind = "category_limit"
	KindInsufficientBalance Kind = "insufficient_balance"
)

// Alert is an advisory message. Alerts never block or undo an operation.
type Alert struct {
	ID        uuid.UUID
	Kind      Kind
	Message   string
	Period    string
	CreatedAt time.Time
}

// Policy holds the thresholds the rules are evaluated against.
type Policy struct {
	// HighValueRatio is the share of the period's income at or above which a
	// single expense is flagged.
	HighValueRatio decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{HighValueRatio: decimal.RequireFromString("0.5")}
}

// State is the budget context an outcome is evaluated in.
type State struct {
	Period      string
	TotalIncome decimal.Decimal
	// CategorySpent is the period's spend in the expense's category after the
	// attempt.
	CategorySpent decimal.Decimal
}

// StateOf captures the state of b after out was applied to it.
func StateOf(b *budget.Monthly, out budget.ExpenseOutcome) State {
	return State{
		Period:        b.Period(),
		TotalIncome:   b.TotalIncome(),
		CategorySpent: b.SpentIn(out.Expense.Category()),
	}
}

// Evaluate runs every rule against out. Rejected expenses are evaluated too,
// using the balance they would have produced.
func Evaluate(out budget.ExpenseOutcome, st State, p Policy, now time.Time) []Alert {
	var alerts []Alert

	raise := func(kind Kind, format string, args ...any) {
		alerts = append(alerts, Alert{
			ID:        uuid.New(),
			Kind:      kind,
			Message:   fmt.Sprintf(format, args...),
			Period:    st.Period,
			CreatedAt: now,
		})
	}

	e := out.Expense

	if e.Amount().GreaterThanOrEqual(p.HighValueRatio.Mul(st.TotalIncome)) {
		raise(KindHighValue, "Despesa de alto valor: %q de %s frente a receita de %s em %s",
			e.Description(), e.Amount().StringFixed(2), st.TotalIncome.StringFixed(2), st.Period)
	}

	if !out.Balance.IsPositive() {
		raise(KindDeficit, "Déficit orçamentário em %s: saldo de %s após %q",
			st.Period, out.Balance.StringFixed(2), e.Description())
	}

	if errors.Is(out.Err, budget.ErrInsufficientBalance) {
		raise(KindInsufficientBalance, "Saldo insuficiente para %q: saldo %s, despesa %s",
			e.Description(), out.PreviousBalance.StringFixed(2), e.Amount().StringFixed(2))
	}

	if limit, ok := e.Category().Limit(); ok && out.Accepted && st.CategorySpent.GreaterThan(limit) {
		raise(KindCategoryLimit, "Limite da categoria %q excedido em %s: gasto %s, limite %s",
			e.Category().Name(), st.Period, st.CategorySpent.StringFixed(2), limit.StringFixed(2))
	}

	return alerts
}
