package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the HTTP handler chain.
//
//	POST /account/create
//	GET  /account/{name}/balance
//	GET  /account/{name}/transfers
//	POST /transaction/deposit
//	POST /transaction/withdraw
//	POST /transaction/transfer
//	GET  /health
func (s *LedgerService) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)

	r.Route("/account", func(r chi.Router) {
		r.With(s.idempotent).Post("/create", s.createAccount)
		r.Get("/{name}/balance", s.getBalance)
		r.Get("/{name}/transfers", s.listTransfers)
	})

	r.Route("/transaction", func(r chi.Router) {
		r.Use(s.idempotent)
		r.Post("/deposit", s.deposit)
		r.Post("/withdraw", s.withdraw)
		r.Post("/transfer", s.transfer)
	})

	return r
}

func (s *LedgerService) idempotent(next http.Handler) http.Handler {
	if s.idempotency == nil {
		return next
	}
	return Idempotency(s.idempotency)(next)
}
