package api

import (
	"net/http"
	"strconv"

	"ledger-service-go/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *LedgerService) createAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := s.ledger.CreateAccount(r.Context(), req.Name, req.Balance); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *LedgerService) getBalance(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	balance, err := s.ledger.GetBalance(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, models.Account{Name: name, Balance: balance})
}

// listTransfers pages through the account's journal with ?limit= and ?offset=
func (s *LedgerService) listTransfers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, err)
		return
	}

	transfers, err := s.ledger.Transfers(r.Context(), name, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, transfers)
}

func (s *LedgerService) health(w http.ResponseWriter, r *http.Request) {
	if err := s.HealthCheck(r.Context()); err != nil {
		LoggerFromContext(r.Context()).Warn("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, newRequestError(map[string]fieldError{
			name: {Message: "must be a non-negative integer", Value: raw},
		})
	}
	return v, nil
}
