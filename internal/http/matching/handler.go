package matching

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
	"github.com/MrJamesThe3rd/orcamento/internal/http/respond"
	"github.com/MrJamesThe3rd/orcamento/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type ruleDTO struct {
	Pattern  string        `json:"pattern"`
	Category string        `json:"category"`
	Kind     category.Kind `json:"kind"`
}

type suggestResponse struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleDTO, len(rules))
	for i, rule := range rules {
		resp[i] = ruleDTO{Pattern: rule.Pattern, Category: rule.CategoryName, Kind: rule.Kind}
	}

	respond.JSON(w, http.StatusOK, resp)
}

// suggest answers ?description=...&kind=expense with the category a rule
// would file it under; kind defaults to expense.
func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
		return
	}

	kind := category.KindExpense

	if k := r.URL.Query().Get("kind"); k != "" {
		parsed, err := category.ParseKind(k)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		kind = parsed
	}

	name, err := h.svc.Suggest(r.Context(), desc, kind)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Description: desc, Category: name})
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req ruleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	kind, err := category.ParseKind(string(req.Kind))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rule, err := h.svc.Learn(r.Context(), matching.Rule{
		Pattern:      req.Pattern,
		CategoryName: req.Category,
		Kind:         kind,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, ruleDTO{Pattern: rule.Pattern, Category: rule.CategoryName, Kind: rule.Kind})
}
