package manager

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

// Observer is notified after every insertion the Manager performs.
type Observer interface {
	IncomeRecorded(period *budget.Monthly, in transaction.Income)
	ExpenseAttempted(period *budget.Monthly, r Receipt)
}

// Receipt is the result of AddExpenseWithAlert: what happened to the expense
// and which alerts it raised.
type Receipt struct {
	Outcome budget.ExpenseOutcome
	Alerts  []alert.Alert
}

// Manager owns the current period and the alert log.
// It is not safe for concurrent use; callers that share one must serialize
// access.
type Manager struct {
	current   *budget.Monthly
	alerts    []alert.Alert
	policy    alert.Policy
	now       func() time.Time
	observers []Observer
	logger    *slog.Logger
}

type Option func(*Manager)

func WithPolicy(p alert.Policy) Option {
	return func(m *Manager) { m.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, o) }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func New(opts ...Option) *Manager {
	m := &Manager{
		policy: alert.DefaultPolicy(),
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// NewPeriod starts a fresh budget for year/month and makes it current. The
// previous period, if any, is dropped.
func (m *Manager) NewPeriod(year, month int) (*budget.Monthly, error) {
	b, err := budget.NewMonthly(year, month)
	if err != nil {
		return nil, err
	}

	m.Adopt(b)

	return b, nil
}

// Adopt makes an existing budget the current period.
func (m *Manager) Adopt(b *budget.Monthly) {
	m.current = b
	m.logger.Info("period opened", "period", b.Period(), "balance", b.Balance().StringFixed(2))
}

func (m *Manager) CurrentPeriod() (*budget.Monthly, bool) {
	return m.current, m.current != nil
}

// AddIncome records in on the current period and returns its balance.
func (m *Manager) AddIncome(in transaction.Income) (decimal.Decimal, error) {
	if m.current == nil {
		return decimal.Zero, ErrNoOpenPeriod
	}

	bal := m.current.AddIncome(in)

	for _, o := range m.observers {
		o.IncomeRecorded(m.current, in)
	}

	return bal, nil
}

// AddExpenseWithAlert adds e to the current period and evaluates the alert
// rules against the attempt whether or not it succeeded. Alerts are recorded
// before the insertion error, if any, is returned.
func (m *Manager) AddExpenseWithAlert(e transaction.Expense) (Receipt, error) {
	if m.current == nil {
		return Receipt{}, ErrNoOpenPeriod
	}

	out := m.current.TryAddExpense(e)
	alerts := alert.Evaluate(out, alert.StateOf(m.current, out), m.policy, m.now())
	m.alerts = append(m.alerts, alerts...)

	r := Receipt{Outcome: out, Alerts: alerts}

	for _, o := range m.observers {
		o.ExpenseAttempted(m.current, r)
	}

	for _, a := range alerts {
		m.logger.Warn("alert raised", "period", a.Period, "kind", a.Kind, "message", a.Message)
	}

	if out.Err != nil {
		return r, fmt.Errorf("add expense to %s: %w", m.current.Period(), out.Err)
	}

	return r, nil
}

// Alerts returns every alert raised so far, oldest first.
func (m *Manager) Alerts() []alert.Alert {
	return slices.Clone(m.alerts)
}
