// Package matching files statement rows under categories using learned
// description patterns.
package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, description string, kind category.Kind) (string, error)
	CreateRule(ctx context.Context, r Rule) error
	ListRules(ctx context.Context) ([]Rule, error)
}

// Rule files every description containing Pattern (case-insensitive) under
// the category CategoryName of the given Kind.
type Rule struct {
	Pattern      string
	CategoryName string
	Kind         category.Kind
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category name of the longest rule matching description,
// or "" if none does.
func (s *Service) Suggest(ctx context.Context, description string, kind category.Kind) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, description, kind)
}

// Learn remembers a new rule.
func (s *Service) Learn(ctx context.Context, r Rule) (Rule, error) {
	r.Pattern = strings.TrimSpace(r.Pattern)
	r.CategoryName = strings.TrimSpace(r.CategoryName)

	if r.Pattern == "" {
		return Rule{}, fmt.Errorf("%w: empty pattern", ErrInvalidRule)
	}

	if r.CategoryName == "" {
		return Rule{}, fmt.Errorf("%w: empty category", ErrInvalidRule)
	}

	if !r.Kind.Valid() {
		return Rule{}, fmt.Errorf("%w: kind %q", ErrInvalidRule, r.Kind)
	}

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return Rule{}, err
	}

	return r, nil
}

func (s *Service) Rules(ctx context.Context) ([]Rule, error) {
	return s.repo.ListRules(ctx)
}
