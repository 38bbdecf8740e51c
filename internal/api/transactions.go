package api

import (
	"net/http"

	"ledger-service-go/internal/models"
)

func (s *LedgerService) deposit(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.ledger.Deposit(r.Context(), req.Receiver, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, result)
}

func (s *LedgerService) withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.ledger.Withdraw(r.Context(), req.Receiver, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, result)
}

// transfer reports the giver's balance before and after
func (s *LedgerService) transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.ledger.Transfer(r.Context(), req.Giver, req.Receiver, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, result)
}
