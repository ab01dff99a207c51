package category

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/orcamento/internal/category"
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
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type createCategoryRequest struct {
	Name  string           `json:"name"`
	Kind  string           `json:"kind"`
	Limit *decimal.Decimal `json:"limit,omitempty"`
}

type categoryResponse struct {
	Name  string           `json:"name"`
	Kind  category.Kind    `json:"kind"`
	Limit *decimal.Decimal `json:"limit,omitempty"`
}

func toResponse(c category.Category) categoryResponse {
	resp := categoryResponse{Name: c.Name(), Kind: c.Kind()}

	if l, ok := c.Limit(); ok {
		resp.Limit = &l
	}

	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	kind, err := category.ParseKind(req.Kind)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), ledger.CategoryParams{
		Name:  req.Name,
		Kind:  kind,
		Limit: req.Limit,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}
