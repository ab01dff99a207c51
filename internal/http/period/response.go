package period

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
	"github.com/MrJamesThe3rd/orcamento/internal/manager"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Kind        category.Kind             `json:"kind"`
	Amount      decimal.Decimal           `json:"amount"`
	Date        string                    `json:"date"`
	Description string                    `json:"description"`
	Category    string                    `json:"category"`
	Method      transaction.PaymentMethod `json:"method"`
}

func toTransactionResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID(),
		Kind:        tx.Kind(),
		Amount:      tx.Amount(),
		Date:        tx.Date().Format(time.DateOnly),
		Description: tx.Description(),
		Category:    tx.Category().Name(),
		Method:      tx.Method(),
	}
}

func toTransactionList[T transaction.Transaction](txs []T) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toTransactionResponse(tx)
	}

	return resp
}

type periodResponse struct {
	Period        string                `json:"period"`
	Year          int                   `json:"year"`
	Month         int                   `json:"month"`
	Balance       decimal.Decimal       `json:"balance"`
	TotalIncome   decimal.Decimal       `json:"total_income"`
	TotalExpenses decimal.Decimal       `json:"total_expenses"`
	Incomes       []transactionResponse `json:"incomes"`
	Expenses      []transactionResponse `json:"expenses"`
}

func toPeriodResponse(v ledger.PeriodView) periodResponse {
	return periodResponse{
		Period:        budget.FormatPeriod(v.Year, v.Month),
		Year:          v.Year,
		Month:         v.Month,
		Balance:       v.Balance,
		TotalIncome:   v.TotalIncome,
		TotalExpenses: v.TotalExpenses,
		Incomes:       toTransactionList(v.Incomes),
		Expenses:      toTransactionList(v.Expenses),
	}
}

type alertResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      alert.Kind `json:"kind"`
	Message   string     `json:"message"`
	Period    string     `json:"period"`
	CreatedAt time.Time  `json:"created_at"`
}

func toAlertList(alerts []alert.Alert) []alertResponse {
	resp := make([]alertResponse, len(alerts))
	for i, a := range alerts {
		resp[i] = alertResponse{
			ID:        a.ID,
			Kind:      a.Kind,
			Message:   a.Message,
			Period:    a.Period,
			CreatedAt: a.CreatedAt,
		}
	}

	return resp
}

type incomeResponse struct {
	Income  transactionResponse `json:"income"`
	Balance decimal.Decimal     `json:"balance"`
}

type expenseResponse struct {
	Expense         transactionResponse `json:"expense"`
	Accepted        bool                `json:"accepted"`
	PreviousBalance decimal.Decimal     `json:"previous_balance"`
	Balance         decimal.Decimal     `json:"balance"`
	Error           string              `json:"error,omitempty"`
	Alerts          []alertResponse     `json:"alerts"`
}

func toExpenseResponse(r manager.Receipt) expenseResponse {
	resp := expenseResponse{
		Expense:         toTransactionResponse(r.Outcome.Expense),
		Accepted:        r.Outcome.Accepted,
		PreviousBalance: r.Outcome.PreviousBalance,
		Balance:         r.Outcome.Balance,
		Alerts:          toAlertList(r.Alerts),
	}

	if r.Outcome.Err != nil {
		resp.Error = r.Outcome.Err.Error()
	}

	return resp
}
