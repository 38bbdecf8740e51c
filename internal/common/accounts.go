package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ledger-service-go/internal/ledger"
	"ledger-service-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type SeedAccount struct {
	Name    string `yaml:"name"`
	Balance string `yaml:"balance"`
}

type SeedAccountsConfig struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// AccountCreator opens accounts; *ledger.Service satisfies it
type AccountCreator interface {
	CreateAccount(ctx context.Context, name string, balance decimal.Decimal) (*models.Account, error)
}

// AccountLister lists stored accounts; *ledger.Service satisfies it
type AccountLister interface {
	Accounts(ctx context.Context) ([]models.Account, error)
}

func LoadSeedAccounts(seedFile string) ([]SeedAccount, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedAccountsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, account := range config.Accounts {
		if account.Name == "" {
			return nil, fmt.Errorf("account at index %d missing name", i)
		}
		if account.Balance == "" {
			continue
		}
		if _, err := decimal.NewFromString(account.Balance); err != nil {
			return nil, fmt.Errorf("account %s has invalid balance %q: %w", account.Name, account.Balance, err)
		}
	}

	return config.Accounts, nil
}

// SeedAccounts opens every seed account. Accounts that already exist are
// left untouched.
func SeedAccounts(ctx context.Context, creator AccountCreator, seeds []SeedAccount) error {
	created := 0
	for _, seed := range seeds {
		balance := decimal.Zero
		if seed.Balance != "" {
			balance = decimal.RequireFromString(seed.Balance)
		}

		_, err := creator.CreateAccount(ctx, seed.Name, balance)
		if errors.Is(err, ledger.ErrAccountExists) {
			zap.L().Debug("Seed account already exists", zap.String("account", seed.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed account %s: %w", seed.Name, err)
		}
		created++
	}

	zap.L().Info("Seed accounts loaded", zap.Int("created", created), zap.Int("total", len(seeds)))
	return nil
}

// SelectAccounts returns all accounts, or only the named one when
// nameFilter is set.
func SelectAccounts(ctx context.Context, lister AccountLister, nameFilter string, logger *zap.Logger) ([]models.Account, error) {
	all, err := lister.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	if nameFilter == "" {
		logger.Info("Retrieved accounts", zap.Int("count", len(all)))
		return all, nil
	}

	logger.Info("Looking up account by name", zap.String("name", nameFilter))
	for _, account := range all {
		if account.Name == nameFilter {
			return []models.Account{account}, nil
		}
	}
	return nil, fmt.Errorf("account not found: %s", nameFilter)
}
