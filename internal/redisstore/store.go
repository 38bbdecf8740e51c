// Package redisstore keeps account balances and the transfer journal in
// redis. Balances live under account:<name> as decimal strings; each account
// has a transfers:<name> list with the newest entry at the head.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ledger-service-go/internal/models"
	"ledger-service-go/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	accountKeyPrefix  = "account:"
	transferKeyPrefix = "transfers:"
	scanBatch         = 100
)

// Compile-time check: *Store must satisfy store.Backend.
var _ store.Backend = (*Store)(nil)

type Store struct {
	rdb *redis.Client
}

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, cfg models.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		if closeErr := rdb.Close(); closeErr != nil {
			zap.L().Warn("Failed to close redis client", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping redis at %s: %w", cfg.Addr(), err)
	}

	zap.L().Info("Connected to redis", zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB))
	return rdb, nil
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func accountKey(name string) string  { return accountKeyPrefix + name }
func transferKey(name string) string { return transferKeyPrefix + name }

func (s *Store) Get(ctx context.Context, name string) (*models.Account, error) {
	raw, err := s.rdb.Get(ctx, accountKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("Failed to get account", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance '%s' for %s: %w", raw, name, err)
	}
	return &models.Account{Name: name, Balance: balance}, nil
}

func (s *Store) Set(ctx context.Context, account models.Account) error {
	if err := s.rdb.Set(ctx, accountKey(account.Name), account.Balance.String(), 0).Err(); err != nil {
		zap.L().Error("Failed to store account", zap.String("account", account.Name), zap.Error(err))
		return fmt.Errorf("failed to store account: %w", err)
	}
	return nil
}

// SetMany writes all accounts inside one MULTI/EXEC block.
func (s *Store) SetMany(ctx context.Context, accounts ...models.Account) error {
	if len(accounts) == 0 {
		return store.ErrEmptyBatch
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, account := range accounts {
			pipe.Set(ctx, accountKey(account.Name), account.Balance.String(), 0)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("Failed to store account batch", zap.Int("accounts", len(accounts)), zap.Error(err))
		return fmt.Errorf("failed to store accounts: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]models.Account, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, accountKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}

	accounts := make([]models.Account, 0, len(keys))
	if len(keys) == 0 {
		return accounts, nil
	}
	sort.Strings(keys)

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// deleted between SCAN and MGET
			continue
		}
		balance, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance for %s: %w", keys[i], err)
		}
		accounts = append(accounts, models.Account{
			Name:    strings.TrimPrefix(keys[i], accountKeyPrefix),
			Balance: balance,
		})
	}
	return accounts, nil
}

// RecordTransfer prepends the transfer to both parties' journals atomically.
func (s *Store) RecordTransfer(ctx context.Context, transfer models.Transfer) error {
	payload, err := json.Marshal(transfer)
	if err != nil {
		return fmt.Errorf("failed to encode transfer: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, transferKey(transfer.Giver), payload)
		pipe.LPush(ctx, transferKey(transfer.Receiver), payload)
		return nil
	})
	if err != nil {
		zap.L().Error("Failed to record transfer", zap.String("transfer_id", transfer.Id), zap.Error(err))
		return fmt.Errorf("failed to record transfer: %w", err)
	}
	return nil
}

func (s *Store) ListTransfers(ctx context.Context, name string, limit, offset int) ([]models.Transfer, error) {
	transfers := []models.Transfer{}
	if limit <= 0 {
		return transfers, nil
	}

	entries, err := s.rdb.LRange(ctx, transferKey(name), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		zap.L().Error("Failed to get transfer history", zap.String("account", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get transfer history: %w", err)
	}

	for _, entry := range entries {
		var transfer models.Transfer
		if err := json.Unmarshal([]byte(entry), &transfer); err != nil {
			return nil, fmt.Errorf("failed to decode transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() {
	if err := s.rdb.Close(); err != nil {
		zap.L().Warn("Failed to close redis connection", zap.Error(err))
	}
}
