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

package api

import (
	"context"
	"fmt"

	"ledger-service-go/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// Ledger is the set of operations exposed over HTTP
type Ledger interface {
	CreateAccount(ctx context.Context, name string, balance decimal.Decimal) (*models.Account, error)
	GetBalance(ctx context.Context, name string) (decimal.Decimal, error)
	Deposit(ctx context.Context, name string, amount decimal.Decimal) (*models.TransactionResult, error)
	Withdraw(ctx context.Context, name string, amount decimal.Decimal) (*models.TransactionResult, error)
	Transfer(ctx context.Context, giver, receiver string, amount decimal.Decimal) (*models.TransactionResult, error)
	Transfers(ctx context.Context, name string, limit, offset int) ([]models.Transfer, error)
}

// Pinger is implemented by store backends that hold a connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// LedgerService adapts the ledger to HTTP
type LedgerService struct {
	ledger      Ledger
	validate    *validator.Validate
	pinger      Pinger
	idempotency *redis.Client
}

type Option func(*LedgerService)

func WithHealthCheck(p Pinger) Option {
	return func(s *LedgerService) { s.pinger = p }
}

// WithIdempotency caches mutation responses by Idempotency-Key in redis.
func WithIdempotency(rdb *redis.Client) Option {
	return func(s *LedgerService) { s.idempotency = rdb }
}

func NewLedgerService(l Ledger, opts ...Option) *LedgerService {
	s := &LedgerService{
		ledger:   l,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) HealthCheck(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	if err := s.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}
