package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/manager"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

//go:generate mockgen -source=ledger.go -destination=repository_mock.go -package=ledger
type Repository interface {
	SaveCategory(ctx context.Context, c category.Category) error
	GetCategory(ctx context.Context, name string, kind category.Kind) (category.Category, error)
	ListCategories(ctx context.Context) ([]category.Category, error)

	SavePeriod(ctx context.Context, year, month int) error
	LoadPeriod(ctx context.Context, year, month int) (*budget.Monthly, error)
	SaveTransaction(ctx context.Context, period string, tx transaction.Transaction) error

	SaveAlerts(ctx context.Context, alerts []alert.Alert) error
	ListAlerts(ctx context.Context) ([]alert.Alert, error)
}

// Service serializes access to a Manager and persists what it records.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	mgr    *manager.Manager
	logger *slog.Logger
}

func NewService(repo Repository, mgr *manager.Manager, logger *slog.Logger) *Service {
	return &Service{repo: repo, mgr: mgr, logger: logger}
}

type CategoryParams struct {
	Name  string
	Kind  category.Kind
	Limit *decimal.Decimal
}

func (s *Service) CreateCategory(ctx context.Context, p CategoryParams) (category.Category, error) {
	var (
		c   category.Category
		err error
	)

	if p.Limit != nil {
		c, err = category.NewWithLimit(p.Name, p.Kind, *p.Limit)
	} else {
		c, err = category.New(p.Name, p.Kind)
	}

	if err != nil {
		return category.Category{}, err
	}

	if err := s.repo.SaveCategory(ctx, c); err != nil {
		return category.Category{}, fmt.Errorf("saving category: %w", err)
	}

	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]category.Category, error) {
	return s.repo.ListCategories(ctx)
}

// OpenPeriod makes year/month the current period, restoring it from the
// repository when it was opened before.
func (s *Service) OpenPeriod(ctx context.Context, year, month int) (*budget.Monthly, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.repo.LoadPeriod(ctx, year, month)
	if err == nil {
		s.mgr.Adopt(stored)
		return stored, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("loading period: %w", err)
	}

	b, err := budget.NewMonthly(year, month)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SavePeriod(ctx, year, month); err != nil {
		return nil, fmt.Errorf("saving period: %w", err)
	}

	s.mgr.Adopt(b)

	return b, nil
}

// PeriodView is a consistent read of the current period.
type PeriodView struct {
	Year          int
	Month         int
	Balance       decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Incomes       []transaction.Income
	Expenses      []transaction.Expense
}

func (s *Service) CurrentPeriod(_ context.Context) (PeriodView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.mgr.CurrentPeriod()
	if !ok {
		return PeriodView{}, manager.ErrNoOpenPeriod
	}

	return PeriodView{
		Year:          b.Year(),
		Month:         b.Month(),
		Balance:       b.Balance(),
		TotalIncome:   b.TotalIncome(),
		TotalExpenses: b.TotalExpenses(),
		Incomes:       b.Incomes(),
		Expenses:      b.Expenses(),
	}, nil
}

// EntryParams describes an income or expense by category name.
type EntryParams struct {
	Amount       decimal.Decimal
	Date         time.Time
	Description  string
	CategoryName string
	Method       transaction.PaymentMethod
}

func (s *Service) params(ctx context.Context, p EntryParams, kind category.Kind) (transaction.Params, error) {
	c, err := s.repo.GetCategory(ctx, p.CategoryName, kind)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return transaction.Params{}, fmt.Errorf("%s category %q: %w", kind, p.CategoryName, ErrNotFound)
		}

		return transaction.Params{}, fmt.Errorf("getting category: %w", err)
	}

	return transaction.Params{
		Amount:      p.Amount,
		Date:        p.Date,
		Description: p.Description,
		Category:    c,
		Method:      p.Method,
	}, nil
}

func (s *Service) RecordIncome(ctx context.Context, p EntryParams) (transaction.Income, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.mgr.CurrentPeriod()
	if !ok {
		return transaction.Income{}, decimal.Zero, manager.ErrNoOpenPeriod
	}

	tp, err := s.params(ctx, p, category.KindIncome)
	if err != nil {
		return transaction.Income{}, decimal.Zero, err
	}

	in, err := transaction.NewIncome(tp)
	if err != nil {
		return transaction.Income{}, decimal.Zero, err
	}

	if err := s.repo.SaveTransaction(ctx, b.Period(), in); err != nil {
		return transaction.Income{}, decimal.Zero, fmt.Errorf("saving income: %w", err)
	}

	bal, err := s.mgr.AddIncome(in)
	if err != nil {
		return transaction.Income{}, decimal.Zero, err
	}

	s.logger.InfoContext(ctx, "income recorded",
		"period", b.Period(), "amount", in.Amount().StringFixed(2), "category", in.Category().Name())

	return in, bal, nil
}

// RecordExpense adds an expense through the Manager. The returned receipt is
// meaningful even when err wraps budget.ErrInsufficientBalance: the alerts it
// carries have already been persisted.
func (s *Service) RecordExpense(ctx context.Context, p EntryParams) (manager.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.mgr.CurrentPeriod()
	if !ok {
		return manager.Receipt{}, manager.ErrNoOpenPeriod
	}

	tp, err := s.params(ctx, p, category.KindExpense)
	if err != nil {
		return manager.Receipt{}, err
	}

	e, err := transaction.NewExpense(tp)
	if err != nil {
		return manager.Receipt{}, err
	}

	// An expense the balance covers is always accepted, so it is stored
	// before the budget sees it.
	if !b.Balance().Sub(e.Amount()).IsNegative() {
		if err := s.repo.SaveTransaction(ctx, b.Period(), e); err != nil {
			return manager.Receipt{}, fmt.Errorf("saving expense: %w", err)
		}
	}

	receipt, addErr := s.mgr.AddExpenseWithAlert(e)

	if len(receipt.Alerts) > 0 {
		if err := s.repo.SaveAlerts(ctx, receipt.Alerts); err != nil {
			return receipt, fmt.Errorf("saving alerts: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "expense attempted",
		"period", b.Period(),
		"amount", e.Amount().StringFixed(2),
		"category", e.Category().Name(),
		"accepted", receipt.Outcome.Accepted,
		"alerts", len(receipt.Alerts))

	return receipt, addErr
}

// Alerts returns the persisted alert log, oldest first.
func (s *Service) Alerts(ctx context.Context) ([]alert.Alert, error) {
	return s.repo.ListAlerts(ctx)
}
