package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/importer"
	"github.com/MrJamesThe3rd/orcamento/internal/manager"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

// Classifier picks a category name for a statement row from its description.
// An empty name means no rule applies.
type Classifier interface {
	Suggest(ctx context.Context, description string, kind category.Kind) (string, error)
}

// ImportParams names the categories imported rows are filed under. A row the
// Classifier cannot place goes to IncomeCategory or ExpenseCategory by kind.
type ImportParams struct {
	Statement       io.Reader
	IncomeCategory  string
	ExpenseCategory string
	Method          transaction.PaymentMethod
	Classifier      Classifier
}

// ImportResult is the outcome of one statement row.
type ImportResult struct {
	Line        int
	Kind        category.Kind
	Description string
	Amount      decimal.Decimal
	Accepted    bool
	Alerts      []alert.Alert
	Err         error
}

// ImportStatement records every row of a statement into the current period in
// date order. Rows rejected by the budget rules are reported in their result
// and the import carries on; any other failure stops it and returns the
// results gathered so far.
func (s *Service) ImportStatement(ctx context.Context, p ImportParams) ([]ImportResult, error) {
	if _, err := s.CurrentPeriod(ctx); err != nil {
		return nil, err
	}

	if !p.Method.Valid() {
		return nil, fmt.Errorf("%w: %q", transaction.ErrInvalidPaymentMethod, p.Method)
	}

	rows, err := importer.NewParser().Parse(p.Statement)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(rows, func(a, b importer.Row) int {
		return a.Date.Compare(b.Date)
	})

	results := make([]ImportResult, 0, len(rows))

	for _, row := range rows {
		res := ImportResult{
			Line:        row.Line,
			Kind:        row.Kind,
			Description: row.Description,
			Amount:      row.Amount,
		}

		entry := EntryParams{
			Amount:      row.Amount,
			Date:        row.Date,
			Description: row.Description,
			Method:      p.Method,
		}

		entry.CategoryName, err = p.categoryFor(ctx, row)
		if err != nil {
			return results, fmt.Errorf("line %d: classifying: %w", row.Line, err)
		}

		switch row.Kind {
		case category.KindIncome:
			_, _, err = s.RecordIncome(ctx, entry)
		default:
			var receipt manager.Receipt
			receipt, err = s.RecordExpense(ctx, entry)
			res.Alerts = receipt.Alerts
		}

		res.Accepted = err == nil
		res.Err = err
		results = append(results, res)

		if err != nil && !isRowError(err) {
			return results, fmt.Errorf("line %d: %w", row.Line, err)
		}
	}

	s.logger.InfoContext(ctx, "statement imported", "rows", len(results))

	return results, nil
}

func (p ImportParams) categoryFor(ctx context.Context, row importer.Row) (string, error) {
	if p.Classifier != nil {
		name, err := p.Classifier.Suggest(ctx, row.Description, row.Kind)
		if err != nil {
			return "", err
		}

		if name != "" {
			return name, nil
		}
	}

	if row.Kind == category.KindIncome {
		return p.IncomeCategory, nil
	}

	return p.ExpenseCategory, nil
}

func isRowError(err error) bool {
	return errors.Is(err, budget.ErrInsufficientBalance) ||
		errors.Is(err, transaction.ErrInvalidAmount) ||
		errors.Is(err, transaction.ErrCategoryLimitExceeded)
}
