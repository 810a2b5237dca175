package handler

import (
	"errors"
	"net/http"

	"github.com/DioGolang/GoTraffic/internal/application/usecase/catalog"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

type Product struct {
	Catalog catalog.UseCase
}

func NewProductHandler(c catalog.UseCase) *Product {
	return &Product{Catalog: c}
}

func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Product) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrIDIsRequired) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
