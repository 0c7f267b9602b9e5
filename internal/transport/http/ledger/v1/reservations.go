package http

import (
	"net/http"

	"github.com/you-humble/stockledger/internal/model"
)

func (h *handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	res, err := h.reservations.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var params model.UpdateReservationParams
	if err := h.decode(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}
	params.ID = id

	res, err := h.reservations.Update(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.dashboard.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
