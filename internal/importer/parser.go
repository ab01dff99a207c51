package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
	enc "github.com/MrJamesThe3rd/orcamento/internal/encoding"
)

var dateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

// Parser reads semicolon separated statement exports. Anything above the
// first recognised header row (account details, opening balance) is ignored.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	for i, rec := range records {
		for _, prof := range knownProfiles {
			l, ok := prof.match(rec)
			if !ok {
				continue
			}

			slog.Debug("statement detected", "profile", l.profile, "charset", charset, "header_line", i+1)

			return l.rows(records[i+1:], i+2)
		}
	}

	return nil, fmt.Errorf("%w: no header matches a known layout", ErrUnknownFormat)
}

// rows converts the records below the header. firstLine is the 1-based line
// of records[0]. Records without a date or a non-zero amount (balances,
// footers) are skipped; a movement without description is an error.
func (l layout) rows(records [][]string, firstLine int) ([]Row, error) {
	var out []Row

	for i, rec := range records {
		line := firstLine + i

		date, ok := parseDate(cell(rec, l.date))
		if !ok {
			continue
		}

		amount, kind, ok := l.amountOf(rec)
		if !ok {
			continue
		}

		desc := cell(rec, l.description)
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		out = append(out, Row{
			Line:        line,
			Date:        date,
			Description: desc,
			Amount:      amount,
			Kind:        kind,
		})
	}

	return out, nil
}

func (l layout) amountOf(rec []string) (decimal.Decimal, category.Kind, bool) {
	if l.amount >= 0 {
		d, ok := nonZero(cell(rec, l.amount))
		if !ok {
			return decimal.Zero, "", false
		}

		if d.IsNegative() {
			return d.Neg(), category.KindExpense, true
		}

		return d, category.KindIncome, true
	}

	if d, ok := nonZero(cell(rec, l.debit)); ok {
		return d.Abs(), category.KindExpense, true
	}

	if d, ok := nonZero(cell(rec, l.credit)); ok {
		return d.Abs(), category.KindIncome, true
	}

	return decimal.Zero, "", false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseBRLAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}

	return strings.TrimSpace(rec[idx])
}
