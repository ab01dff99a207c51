package transaction

import (
	"fmt"
	"strings"
)

// PaymentMethod is how money changed hands.
type PaymentMethod string

const (
	PaymentPix          PaymentMethod = "pix"
	PaymentCash         PaymentMethod = "cash"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentBoleto       PaymentMethod = "boleto"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentBankTransfer, PaymentBoleto:
		return true
	}

	return false
}

var paymentAliases = map[string]PaymentMethod{
	"dinheiro":      PaymentCash,
	"debito":        PaymentDebitCard,
	"débito":        PaymentDebitCard,
	"credito":       PaymentCreditCard,
	"crédito":       PaymentCreditCard,
	"transferencia": PaymentBankTransfer,
	"transferência": PaymentBankTransfer,
	"ted":           PaymentBankTransfer,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if m := PaymentMethod(s); m.Valid() {
		return m, nil
	}

	if m, ok := paymentAliases[s]; ok {
		return m, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}
