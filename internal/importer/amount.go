package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseBRLAmount parses an amount in Brazilian notation:
// "1.234,56" -> 1234.56, "-588,74" -> -588.74, "R$ 10,00" -> 10.00.
// Some banks mark direction with a trailing D (debit) or C (credit) or a
// trailing minus: "150,00 D" and "150,00-" are both -150.00.
func parseBRLAmount(s string) (decimal.Decimal, error) {
	clean := strings.ToUpper(strings.TrimSpace(s))
	clean = strings.TrimSpace(strings.TrimPrefix(clean, "R$"))

	negative := false

	switch {
	case strings.HasSuffix(clean, "D"), strings.HasSuffix(clean, "-"):
		negative = true
		clean = clean[:len(clean)-1]
	case strings.HasSuffix(clean, "C"):
		clean = clean[:len(clean)-1]
	}

	clean = strings.NewReplacer(" ", "", ".", "", ",", ".").Replace(clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d.Round(2), nil
}
