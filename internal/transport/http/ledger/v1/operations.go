package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/you-humble/stockledger/internal/export"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/logger"
)

func (h *handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	res, err := h.operations.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	var params model.CreateOperationParams
	if err := h.decode(w, r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.operations.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

func (h *handler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.operations.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportOperations streams the journal as an XLSX workbook. The optional
// tz query parameter is an IANA zone used for the date column.
func (h *handler) ExportOperations(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: unknown time zone %q", model.ErrInvalidInput, tz))
			return
		}
		loc = l
	}

	ops, err := h.operations.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJournal(&buf, ops, loc); err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("journal-%s.xlsx", time.Now().In(loc).Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error(r.Context(), "write journal", logger.ErrorF(err))
	}
}

func (h *handler) ListBundles(w http.ResponseWriter, r *http.Request) {
	res, err := h.operations.ListBundles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
