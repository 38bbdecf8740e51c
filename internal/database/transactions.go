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
	"fmt"

	"ledger-service-go/internal/models"

	"go.uber.org/zap"
)

func (s *Service) RecordTransfer(ctx context.Context, transfer models.Transfer) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(queryInsertTransfer),
		transfer.Id, transfer.Giver, transfer.Receiver, transfer.Amount.String(), transfer.When)
	if err != nil {
		zap.L().Error("Failed to record transfer", zap.String("transfer_id", transfer.Id), zap.Error(err))
		return fmt.Errorf("failed to record transfer: %w", err)
	}
	return nil
}

// ListTransfers returns transfers touching name, most recent first.
func (s *Service) ListTransfers(ctx context.Context, name string, limit, offset int) ([]models.Transfer, error) {
	zap.L().Debug("Getting transfer history",
		zap.String("account", name),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	transfers := []models.Transfer{}
	err := s.db.SelectContext(ctx, &transfers, s.db.Rebind(queryListTransfers), name, name, limit, offset)
	if err != nil {
		zap.L().Error("Failed to get transfer history", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get transfer history: %w", err)
	}

	zap.L().Debug("Retrieved transfer history", zap.String("account", name), zap.Int("count", len(transfers)))
	return transfers, nil
}
