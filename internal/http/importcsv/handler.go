package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/http/respond"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
	"github.com/MrJamesThe3rd/orcamento/internal/matching"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc      *ledger.Service
	matchSvc *matching.Service
}

func NewHandler(svc *ledger.Service, matchSvc *matching.Service) *Handler {
	return &Handler{
		svc:      svc,
		matchSvc: matchSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
}

type rowResponse struct {
	Line        int             `json:"line"`
	Kind        category.Kind   `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Accepted    bool            `json:"accepted"`
	Alerts      int             `json:"alerts"`
	Error       string          `json:"error,omitempty"`
}

type importResponse struct {
	Imported int           `json:"imported"`
	Rejected int           `json:"rejected"`
	Rows     []rowResponse `json:"rows"`
}

func toImportResponse(results []ledger.ImportResult) importResponse {
	resp := importResponse{Rows: make([]rowResponse, 0, len(results))}

	for _, res := range results {
		row := rowResponse{
			Line:        res.Line,
			Kind:        res.Kind,
			Description: res.Description,
			Amount:      res.Amount,
			Accepted:    res.Accepted,
			Alerts:      len(res.Alerts),
		}

		if res.Err != nil {
			row.Error = res.Err.Error()
			resp.Rejected++
		} else {
			resp.Imported++
		}

		resp.Rows = append(resp.Rows, row)
	}

	return resp
}

// importStatement takes a multipart upload with the statement in "file" and
// the fallback categories for rows no rule matches.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	incomeCat := r.FormValue("income_category")
	expenseCat := r.FormValue("expense_category")

	if incomeCat == "" || expenseCat == "" {
		http.Error(w, "income_category and expense_category fields are required", http.StatusBadRequest)
		return
	}

	method := transaction.PaymentBankTransfer

	if m := r.FormValue("method"); m != "" {
		parsed, err := transaction.ParsePaymentMethod(m)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		method = parsed
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params := ledger.ImportParams{
		Statement:       file,
		IncomeCategory:  incomeCat,
		ExpenseCategory: expenseCat,
		Method:          method,
	}

	if h.matchSvc != nil {
		params.Classifier = h.matchSvc
	}

	results, err := h.svc.ImportStatement(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toImportResponse(results))
}
