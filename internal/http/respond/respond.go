// Package respond writes JSON bodies and maps domain errors to HTTP status
// codes for the API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/importer"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
	"github.com/MrJamesThe3rd/orcamento/internal/manager"
	"github.com/MrJamesThe3rd/orcamento/internal/matching"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case errors.Is(err, category.ErrInvalidCategory),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidPaymentMethod),
		errors.Is(err, transaction.ErrCategoryMismatch),
		errors.Is(err, budget.ErrInvalidPeriod),
		errors.Is(err, importer.ErrUnknownFormat),
		errors.Is(err, matching.ErrInvalidRule):
		return http.StatusBadRequest
	case errors.Is(err, transaction.ErrCategoryLimitExceeded),
		errors.Is(err, budget.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, manager.ErrNoOpenPeriod),
		errors.Is(err, ledger.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, matching.ErrUnknownCategory):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as plain text. Internal errors are logged and replaced
// with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
