package alert

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/orcamento/internal/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/http/respond"
	"github.com/MrJamesThe3rd/orcamento/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type alertResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      alert.Kind `json:"kind"`
	Message   string     `json:"message"`
	Period    string     `json:"period"`
	CreatedAt time.Time  `json:"created_at"`
}

// list returns the alert log, oldest first. ?period=YYYY-MM narrows it to one
// budget period.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.Alerts(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	period := r.URL.Query().Get("period")

	resp := make([]alertResponse, 0, len(alerts))

	for _, a := range alerts {
		if period != "" && a.Period != period {
			continue
		}

		resp = append(resp, alertResponse{
			ID:        a.ID,
			Kind:      a.Kind,
			Message:   a.Message,
			Period:    a.Period,
			CreatedAt: a.CreatedAt,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}
