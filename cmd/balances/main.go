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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"ledger-service-go/internal/common"
	"ledger-service-go/internal/config"
	"ledger-service-go/internal/ledger"
	"ledger-service-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const historyLimit = 5

type balanceStats struct {
	totalAccounts    int
	fundedAccounts   int
	totalBalance     decimal.Decimal
	transfersPrinted int
}

func describeTransfer(account string, transfer models.Transfer) string {
	direction, counterparty := "->", transfer.Receiver
	if transfer.Receiver == account {
		direction, counterparty = "<-", transfer.Giver
	}

	return fmt.Sprintf("%s %-15s %15s (id: %s, at: %s)",
		direction,
		counterparty,
		transfer.Amount.String(),
		common.ShortId(transfer.Id),
		transfer.When.Format("2006-01-02 15:04:05"))
}

func processAccount(ctx context.Context, report *common.Report, account models.Account, svc *ledger.Service) (int, error) {
	report.Section("Account: "+account.Name, common.Field{Label: "Balance", Value: account.Balance.String()})

	transfers, err := svc.Transfers(ctx, account.Name, historyLimit, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to get transfers: %w", err)
	}
	if len(transfers) == 0 {
		report.Item("no transfers", true)
		return 0, nil
	}

	for i, transfer := range transfers {
		report.Item(describeTransfer(account.Name, transfer), i == len(transfers)-1)
	}
	return len(transfers), nil
}

func generateReport(ctx context.Context, report *common.Report, accounts []models.Account, svc *ledger.Service, logger *zap.Logger) balanceStats {
	stats := balanceStats{totalBalance: decimal.Zero}

	for _, account := range accounts {
		stats.totalAccounts++
		stats.totalBalance = stats.totalBalance.Add(account.Balance)
		if account.Balance.IsPositive() {
			stats.fundedAccounts++
		}

		printed, err := processAccount(ctx, report, account, svc)
		if err != nil {
			logger.Error("Failed to process account", zap.String("account", account.Name), zap.Error(err))
			continue
		}
		stats.transfersPrinted += printed
	}

	return stats
}

func main() {
	nameFlag := flag.String("name", "", "Filter by account name (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	ctx := context.Background()
	logger.Info("Starting balance query", zap.String("backend", cfg.Store.Backend))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	accounts, err := common.SelectAccounts(ctx, services.Ledger, *nameFlag, logger)
	if err != nil {
		logger.Fatal("Failed to select accounts", zap.Error(err))
	}

	report := common.NewReport(os.Stdout, common.WideWidth)
	report.Header("ACCOUNT BALANCE REPORT")

	stats := generateReport(ctx, report, accounts, services.Ledger, logger)

	summary := fmt.Sprintf("SUMMARY: %d accounts (%d funded), total balance %s",
		stats.totalAccounts, stats.fundedAccounts, stats.totalBalance.String())
	report.Footer(summary)

	logger.Info("Balance query completed",
		zap.Int("accounts", stats.totalAccounts),
		zap.Int("funded_accounts", stats.fundedAccounts),
		zap.String("total_balance", stats.totalBalance.String()),
		zap.Int("transfers_printed", stats.transfersPrinted))
}
