package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// scanCategory expects columns: name, kind, limit_amount.
func scanCategory(s scanner) (category.Category, error) {
	var (
		name, kind string
		limit      decimal.NullDecimal
	)

	if err := s.Scan(&name, &kind, &limit); err != nil {
		return category.Category{}, err
	}

	if limit.Valid {
		return category.NewWithLimit(name, category.Kind(kind), limit.Decimal)
	}

	return category.New(name, category.Kind(kind))
}

func (s *Store) SaveCategory(ctx context.Context, c category.Category) error {
	var limit decimal.NullDecimal
	if l, ok := c.Limit(); ok {
		limit = decimal.NewNullDecimal(l)
	}

	query := `
		INSERT INTO categories (name, kind, limit_amount, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, c.Name(), string(c.Kind()), limit); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %s", ledger.ErrAlreadyExists, c)
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, name string, kind category.Kind) (category.Category, error) {
	query := `SELECT name, kind, limit_amount FROM categories WHERE name = $1 AND kind = $2`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, name, string(kind)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return category.Category{}, ledger.ErrNotFound
		}

		return category.Category{}, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]category.Category, error) {
	query := `SELECT name, kind, limit_amount FROM categories ORDER BY kind, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	return cats, rows.Err()
}

func (s *Store) SavePeriod(ctx context.Context, year, month int) error {
	query := `
		INSERT INTO periods (period, year, month, opened_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, budget.FormatPeriod(year, month), year, month); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period %s", ledger.ErrAlreadyExists, budget.FormatPeriod(year, month))
		}

		return fmt.Errorf("creating period: %w", err)
	}

	return nil
}

// LoadPeriod rebuilds a period by replaying its incomes and then its expenses
// in date order. Every stored expense was accepted against a balance that
// included all incomes recorded before it, so the replay cannot be rejected.
func (s *Store) LoadPeriod(ctx context.Context, year, month int) (*budget.Monthly, error) {
	period := budget.FormatPeriod(year, month)

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM periods WHERE period = $1)`, period).Scan(&exists); err != nil {
		return nil, fmt.Errorf("getting period: %w", err)
	}

	if !exists {
		return nil, ledger.ErrNotFound
	}

	b, err := budget.NewMonthly(year, month)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT t.id, t.kind, t.amount, t.date, t.description, t.method,
			c.name, c.kind, c.limit_amount
		FROM transactions t
		JOIN categories c ON c.name = t.category_name AND c.kind = t.kind
		WHERE t.period = $1
		ORDER BY CASE t.kind WHEN 'income' THEN 0 ELSE 1 END, t.date, t.seq
	`

	rows, err := s.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := s.replay(b, rows); err != nil {
			return nil, fmt.Errorf("restoring period %s: %w", period, err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return b, nil
}

func (s *Store) replay(b *budget.Monthly, rows *sql.Rows) error {
	var (
		id                 uuid.UUID
		kind, desc, method string
		amount             decimal.Decimal
		date               time.Time
		catName, catKind   string
		catLimit           decimal.NullDecimal
	)

	if err := rows.Scan(&id, &kind, &amount, &date, &desc, &method, &catName, &catKind, &catLimit); err != nil {
		return err
	}

	var (
		cat category.Category
		err error
	)

	if catLimit.Valid {
		cat, err = category.NewWithLimit(catName, category.Kind(catKind), catLimit.Decimal)
	} else {
		cat, err = category.New(catName, category.Kind(catKind))
	}

	if err != nil {
		return err
	}

	p := transaction.Params{
		ID:          id,
		Amount:      amount,
		Date:        date,
		Description: desc,
		Category:    cat,
		Method:      transaction.PaymentMethod(method),
	}

	if category.Kind(kind) == category.KindIncome {
		in, err := transaction.NewIncome(p)
		if err != nil {
			return err
		}

		b.AddIncome(in)

		return nil
	}

	e, err := transaction.NewExpense(p)
	if err != nil {
		return err
	}

	_, err = b.AddExpense(e)

	return err
}

func (s *Store) SaveTransaction(ctx context.Context, period string, tx transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, period, kind, amount, date, description, category_name, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID(),
		period,
		string(tx.Kind()),
		tx.Amount(),
		tx.Date(),
		tx.Description(),
		tx.Category().Name(),
		string(tx.Method()),
	)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) SaveAlerts(ctx context.Context, alerts []alert.Alert) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO alerts (id, kind, message, period, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("preparing alert insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range alerts {
		if _, err := stmt.ExecContext(ctx, a.ID, string(a.Kind), a.Message, a.Period, a.CreatedAt); err != nil {
			return fmt.Errorf("creating alert: %w", err)
		}
	}

	return dbTx.Commit()
}

func (s *Store) ListAlerts(ctx context.Context) ([]alert.Alert, error) {
	query := `SELECT id, kind, message, period, created_at FROM alerts ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	defer rows.Close()

	var alerts []alert.Alert

	for rows.Next() {
		var (
			a    alert.Alert
			kind string
		)

		if err := rows.Scan(&a.ID, &kind, &a.Message, &a.Period, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}

		a.Kind = alert.Kind(kind)
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

var _ ledger.Repository = (*Store)(nil)
