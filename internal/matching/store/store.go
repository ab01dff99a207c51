package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/matching"
)

const foreignKeyViolation = "23503"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, description string, kind category.Kind) (string, error) {
	query := `
		SELECT category_name
		FROM category_rules
		WHERE kind = $2 AND strpos(lower($1), lower(pattern)) > 0
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var name string

	err := s.db.QueryRowContext(ctx, query, description, string(kind)).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return name, nil
}

func (s *Store) CreateRule(ctx context.Context, r matching.Rule) error {
	query := `
		INSERT INTO category_rules (pattern, category_name, kind, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, r.Pattern, r.CategoryName, string(r.Kind))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s category %q", matching.ErrUnknownCategory, r.Kind, r.CategoryName)
		}

		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]matching.Rule, error) {
	query := `SELECT pattern, category_name, kind FROM category_rules ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []matching.Rule

	for rows.Next() {
		var (
			r    matching.Rule
			kind string
		)

		if err := rows.Scan(&r.Pattern, &r.CategoryName, &kind); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		r.Kind = category.Kind(kind)
		rules = append(rules, r)
	}

	return rules, rows.Err()
}

var _ matching.Repository = (*Store)(nil)
