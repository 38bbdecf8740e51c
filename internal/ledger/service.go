/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ledger owns every read-modify-write of an account balance.
// Each mutation holds the key lock for the account names it touches from
// the first store read until after the last store write.
package ledger

import (
	"context"
	"fmt"
	"time"

	"ledger-service-go/internal/models"
	"ledger-service-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Locker serializes work on account names. Acquire must order multi-key
// requests consistently; *keylock.KeyLock does.
type Locker interface {
	Acquire(keys ...string)
	Release(keys ...string)
}

// Service provides the ledger operations
type Service struct {
	accounts  store.AccountStore
	transfers store.TransferLog
	locks     Locker
	now       func() time.Time
}

type Option func(*Service)

// WithTransferLog journals every committed transfer to log.
func WithTransferLog(log store.TransferLog) Option {
	return func(s *Service) { s.transfers = log }
}

func NewService(accounts store.AccountStore, locks Locker, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		locks:    locks,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount opens an account. Names are unique.
func (s *Service) CreateAccount(ctx context.Context, name string, balance decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrValidationFailed)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", ErrValidationFailed)
	}

	s.locks.Acquire(name)
	defer s.locks.Release(name)

	existing, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	account := models.Account{Name: name, Balance: balance}
	if err := s.accounts.Set(ctx, account); err != nil {
		zap.L().Error("Failed to persist new account", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	zap.L().Info("Account created", zap.String("account", name), zap.String("balance", balance.String()))
	return &account, nil
}

// GetBalance reads the stored balance without taking the account lock. It is
// the one read outside a held key: it returns the last committed value and
// does not wait for an in-flight mutation on the same account.
func (s *Service) GetBalance(ctx context.Context, name string) (decimal.Decimal, error) {
	account, err := s.load(ctx, name)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, ErrAccountNotExist
	}
	return account.Balance, nil
}

func (s *Service) Accounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) Deposit(ctx context.Context, name string, amount decimal.Decimal) (*models.TransactionResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.locks.Acquire(name)
	defer s.locks.Release(name)

	account, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotExist
	}

	result := &models.TransactionResult{
		BeforeBalance: account.Balance,
		AfterBalance:  account.Balance.Add(amount),
	}
	account.Balance = result.AfterBalance

	if err := s.accounts.Set(ctx, *account); err != nil {
		zap.L().Error("Failed to persist deposit", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to persist deposit: %w", err)
	}

	zap.L().Info("Deposit processed",
		zap.String("account", name),
		zap.String("amount", amount.String()),
		zap.String("old_balance", result.BeforeBalance.String()),
		zap.String("new_balance", result.AfterBalance.String()))
	return result, nil
}

func (s *Service) Withdraw(ctx context.Context, name string, amount decimal.Decimal) (*models.TransactionResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.locks.Acquire(name)
	defer s.locks.Release(name)

	account, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotExist
	}
	if account.Balance.LessThan(amount) {
		zap.L().Info("Withdrawal rejected",
			zap.String("account", name),
			zap.String("amount", amount.String()),
			zap.String("balance", account.Balance.String()))
		return nil, ErrBalanceNotEnough
	}

	result := &models.TransactionResult{
		BeforeBalance: account.Balance,
		AfterBalance:  account.Balance.Sub(amount),
	}
	account.Balance = result.AfterBalance

	if err := s.accounts.Set(ctx, *account); err != nil {
		zap.L().Error("Failed to persist withdrawal", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to persist withdrawal: %w", err)
	}

	zap.L().Info("Withdrawal processed",
		zap.String("account", name),
		zap.String("amount", amount.String()),
		zap.String("old_balance", result.BeforeBalance.String()),
		zap.String("new_balance", result.AfterBalance.String()))
	return result, nil
}

// Transfer moves amount from giver to receiver and reports the giver's
// balances. Both accounts are written in a single SetMany.
func (s *Service) Transfer(ctx context.Context, giver, receiver string, amount decimal.Decimal) (*models.TransactionResult, error) {
	if giver == receiver {
		return nil, fmt.Errorf("%w: giver and receiver must differ", ErrValidationFailed)
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.locks.Acquire(giver, receiver)
	defer s.locks.Release(giver, receiver)

	from, err := s.load(ctx, giver)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, ErrAccountNotExist
	}

	to, err := s.load(ctx, receiver)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ErrReceiverNotExist
	}

	if from.Balance.LessThan(amount) {
		zap.L().Info("Transfer rejected",
			zap.String("giver", giver),
			zap.String("receiver", receiver),
			zap.String("amount", amount.String()),
			zap.String("balance", from.Balance.String()))
		return nil, ErrBalanceNotEnough
	}

	result := &models.TransactionResult{
		BeforeBalance: from.Balance,
		AfterBalance:  from.Balance.Sub(amount),
	}
	from.Balance = result.AfterBalance
	to.Balance = to.Balance.Add(amount)

	if err := s.accounts.SetMany(ctx, *from, *to); err != nil {
		zap.L().Error("Failed to persist transfer",
			zap.String("giver", giver),
			zap.String("receiver", receiver),
			zap.Error(err))
		return nil, fmt.Errorf("failed to persist transfer: %w", err)
	}

	s.journal(ctx, giver, receiver, amount)

	zap.L().Info("Transfer processed",
		zap.String("giver", giver),
		zap.String("receiver", receiver),
		zap.String("amount", amount.String()),
		zap.String("giver_balance", from.Balance.String()),
		zap.String("receiver_balance", to.Balance.String()))
	return result, nil
}

// Transfers returns the journal for one account, most recent first. Like
// GetBalance it reads without the account lock; entries appear only after
// their transfer has committed. limit defaults to 20 and is capped at 100.
func (s *Service) Transfers(ctx context.Context, name string, limit, offset int) ([]models.Transfer, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	account, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotExist
	}
	if s.transfers == nil {
		return []models.Transfer{}, nil
	}

	transfers, err := s.transfers.ListTransfers(ctx, name, limit, offset)
	if err != nil {
		zap.L().Error("Failed to list transfers", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	return transfers, nil
}

// journal records a committed transfer. Balances are already durable at
// this point, so a journal failure is logged and not reported to the caller.
func (s *Service) journal(ctx context.Context, giver, receiver string, amount decimal.Decimal) {
	if s.transfers == nil {
		return
	}

	record := models.Transfer{
		Id:       uuid.New().String(),
		Giver:    giver,
		Receiver: receiver,
		Amount:   amount,
		When:     s.now().UTC(),
	}
	if err := s.transfers.RecordTransfer(ctx, record); err != nil {
		zap.L().Error("Failed to journal transfer",
			zap.String("transfer_id", record.Id),
			zap.String("giver", giver),
			zap.String("receiver", receiver),
			zap.String("amount", amount.String()),
			zap.Error(err))
	}
}

func (s *Service) load(ctx context.Context, name string) (*models.Account, error) {
	account, err := s.accounts.Get(ctx, name)
	if err != nil {
		zap.L().Error("Failed to read account", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to read account %s: %w", name, err)
	}
	return account, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrValidationFailed, amount.String())
	}
	return nil
}
