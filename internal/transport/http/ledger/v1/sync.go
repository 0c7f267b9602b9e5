package http

import (
	"net/http"

	"github.com/you-humble/stockledger/internal/model"
)

func (h *handler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	res, err := h.snapshots.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// ImportSnapshot replaces every entity of the caller with the posted snapshot.
func (h *handler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	var s model.Snapshot
	if err := h.decode(w, r, &s); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.snapshots.Import(r.Context(), s); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
