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
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"ledger-service-go/internal/common"
	"ledger-service-go/internal/config"
	"ledger-service-go/internal/ledger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func parseBalance(raw string) (decimal.Decimal, error) {
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %q: %w", raw, err)
	}
	if balance.IsNegative() {
		return decimal.Zero, fmt.Errorf("balance cannot be negative: %s", raw)
	}
	return balance, nil
}

func main() {
	nameFlag := flag.String("name", "", "Account name (required)")
	balanceFlag := flag.String("balance", "0", "Opening balance")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	if err := validateName(*nameFlag); err != nil {
		logger.Fatal("Invalid account name", zap.Error(err))
	}
	balance, err := parseBalance(*balanceFlag)
	if err != nil {
		logger.Fatal("Invalid opening balance", zap.Error(err))
	}

	ctx := context.Background()
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	account, err := services.Ledger.CreateAccount(ctx, *nameFlag, balance)
	if errors.Is(err, ledger.ErrAccountExists) {
		fmt.Printf("✗ Account %s already exists\n", *nameFlag)
		return
	}
	if err != nil {
		logger.Error("Failed to create account", zap.String("name", *nameFlag), zap.Error(err))
		return
	}

	report := common.NewReport(os.Stdout, common.DefaultWidth)
	report.Header("ACCOUNT CREATED")
	report.Section("Account: "+account.Name,
		common.Field{Label: "Balance", Value: account.Balance.String()},
		common.Field{Label: "Backend", Value: cfg.Store.Backend})
	report.Item("ready to receive transactions", true)
	report.Footer("Done")
}
