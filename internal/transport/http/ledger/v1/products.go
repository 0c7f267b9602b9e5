package http

import (
	"net/http"

	"github.com/you-humble/stockledger/internal/model"
)

func (h *handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.products.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var params model.CreateProductParams
	if err := h.decode(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.products.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

func (h *handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var params model.UpdateProductParams
	if err := h.decode(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}
	params.ID = id

	res, err := h.products.Update(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
