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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger-service-go/internal/models"
	"ledger-service-go/internal/store"

	"go.uber.org/zap"
)

// Get returns the stored account, or nil when the name is unknown.
func (s *Service) Get(ctx context.Context, name string) (*models.Account, error) {
	var account models.Account
	err := s.db.GetContext(ctx, &account, s.db.Rebind(queryGetAccount), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("Failed to get account", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	zap.L().Debug("Retrieved account", zap.String("account", name), zap.String("balance", account.Balance.String()))
	return &account, nil
}

func (s *Service) Set(ctx context.Context, account models.Account) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(queryUpsertAccount), account.Name, account.Balance.String()); err != nil {
		zap.L().Error("Failed to store account", zap.String("account", account.Name), zap.Error(err))
		return fmt.Errorf("failed to store account: %w", err)
	}
	return nil
}

// SetMany writes every account in one database transaction.
func (s *Service) SetMany(ctx context.Context, accounts ...models.Account) error {
	if len(accounts) == 0 {
		return store.ErrEmptyBatch
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := tx.Rebind(queryUpsertAccount)
	for _, account := range accounts {
		if _, err := tx.ExecContext(ctx, upsert, account.Name, account.Balance.String()); err != nil {
			zap.L().Error("Failed to store account in batch", zap.String("account", account.Name), zap.Error(err))
			return fmt.Errorf("failed to store account %s: %w", account.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Account, error) {
	accounts := []models.Account{}
	if err := s.db.SelectContext(ctx, &accounts, queryListAccounts); err != nil {
		zap.L().Error("Failed to list accounts", zap.Error(err))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
