// Package memory is an in-process account store. It is the default backend
// and the one used by tests that exercise the ledger without I/O.
package memory

import (
	"context"
	"sort"
	"sync"

	"ledger-service-go/internal/models"
	"ledger-service-go/internal/store"

	"go.uber.org/zap"
)

// Compile-time check: *Store must satisfy store.Backend.
var _ store.Backend = (*Store)(nil)

type Store struct {
	mu        sync.RWMutex
	accounts  map[string]models.Account
	transfers []models.Transfer
}

func NewStore() *Store {
	return &Store{accounts: make(map[string]models.Account)}
}

func (s *Store) Get(_ context.Context, name string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[name]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) Set(_ context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.Name] = account
	return nil
}

func (s *Store) SetMany(_ context.Context, accounts ...models.Account) error {
	if len(accounts) == 0 {
		return store.ErrEmptyBatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		s.accounts[a.Name] = a
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) RecordTransfer(_ context.Context, transfer models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transfers = append(s.transfers, transfer)
	return nil
}

func (s *Store) ListTransfers(_ context.Context, name string, limit, offset int) ([]models.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transfer
	skipped := 0
	for i := len(s.transfers) - 1; i >= 0 && len(out) < limit; i-- {
		t := s.transfers[i]
		if t.Giver != name && t.Receiver != name {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Close drops all state.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	zap.L().Debug("Clearing in-memory store",
		zap.Int("accounts", len(s.accounts)),
		zap.Int("transfers", len(s.transfers)))
	s.accounts = make(map[string]models.Account)
	s.transfers = nil
}
