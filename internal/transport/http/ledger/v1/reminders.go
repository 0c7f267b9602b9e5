package http

import (
	"net/http"

	"github.com/you-humble/stockledger/internal/model"
)

func (h *handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	res, err := h.reminders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var params model.CreateReminderParams
	if err := h.decode(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.reminders.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

func (h *handler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var params model.UpdateReminderParams
	if err := h.decode(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}
	params.ID = id

	res, err := h.reminders.Update(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
