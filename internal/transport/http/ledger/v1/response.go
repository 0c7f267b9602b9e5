package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/logger"
)

const maxBodyBytes = 32 << 20

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(r.Context(), "encode response", logger.ErrorF(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.ErrorF(err),
		)
		writeJSON(w, r, code, errorResponse{Code: code, Message: http.StatusText(code)})
		return
	}
	writeJSON(w, r, code, errorResponse{Code: code, Message: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest // 400
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized // 401
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden // 403
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, model.ErrUnavailable):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

// decode reads a JSON body into dst and runs struct validation on it.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %s", model.ErrInvalidInput, err.Error())
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}
	return nil
}

// pathID accepts negative ids: rows created offline keep them after a push.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id", model.ErrInvalidInput)
	}
	return id, nil
}
