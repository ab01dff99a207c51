package period

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/http/respond"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.open)
	r.Get("/current", h.current)
	r.Post("/current/incomes", h.addIncome)
	r.Post("/current/expenses", h.addExpense)
}

type openPeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var req openPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.svc.OpenPeriod(r.Context(), req.Year, req.Month); err != nil {
		respond.Error(w, r, err)
		return
	}

	view, err := h.svc.CurrentPeriod(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toPeriodResponse(view))
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.CurrentPeriod(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toPeriodResponse(view))
}

type entryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Method      string          `json:"method"`
}

func (req entryRequest) params() (ledger.EntryParams, error) {
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return ledger.EntryParams{}, err
	}

	method, err := transaction.ParsePaymentMethod(req.Method)
	if err != nil {
		return ledger.EntryParams{}, err
	}

	return ledger.EntryParams{
		Amount:       req.Amount,
		Date:         date,
		Description:  req.Description,
		CategoryName: req.Category,
		Method:       method,
	}, nil
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (ledger.EntryParams, bool) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return ledger.EntryParams{}, false
	}

	p, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return ledger.EntryParams{}, false
	}

	return p, true
}

func (h *Handler) addIncome(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	in, bal, err := h.svc.RecordIncome(r.Context(), p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, incomeResponse{
		Income:  toTransactionResponse(in),
		Balance: bal,
	})
}

// addExpense answers 422 with the receipt when the budget rejects the
// expense, so clients still see the alerts it raised.
func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	receipt, err := h.svc.RecordExpense(r.Context(), p)

	switch {
	case err == nil:
		respond.JSON(w, http.StatusCreated, toExpenseResponse(receipt))
	case errors.Is(err, budget.ErrInsufficientBalance):
		respond.JSON(w, respond.Status(err), toExpenseResponse(receipt))
	default:
		respond.Error(w, r, err)
	}
}
