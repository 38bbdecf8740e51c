package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger-service-go/internal/ledger"
	"ledger-service-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("Failed to encode response", zap.Error(err))
	}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, models.ApiResponse{
		Status: models.NewStatus(models.StatusSuccess),
		Data:   data,
	})
}

func writeStatus(w http.ResponseWriter, code models.StatusCode, detail string) {
	status := models.NewStatus(code)
	status.Detail = detail
	writeJSON(w, http.StatusOK, models.ApiResponse{Status: status})
}

// writeError reports domain outcomes in the envelope and anything else as an
// empty 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *requestError
	switch {
	case errors.As(err, &invalid):
		writeStatus(w, models.StatusValidationFailed, invalid.detail)
	case errors.Is(err, ledger.ErrValidationFailed):
		writeStatus(w, models.StatusValidationFailed, err.Error())
	case errors.Is(err, ledger.ErrAccountExists):
		writeStatus(w, models.StatusAccountExists, "")
	case errors.Is(err, ledger.ErrAccountNotExist):
		writeStatus(w, models.StatusAccountNotExist, "")
	case errors.Is(err, ledger.ErrReceiverNotExist):
		writeStatus(w, models.StatusReceiverNotExist, "")
	case errors.Is(err, ledger.ErrBalanceNotEnough):
		writeStatus(w, models.StatusBalanceNotEnough, "")
	default:
		LoggerFromContext(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
