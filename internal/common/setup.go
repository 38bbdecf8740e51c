package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ledger-service-go/internal/config"
	"ledger-service-go/internal/database"
	"ledger-service-go/internal/keylock"
	"ledger-service-go/internal/ledger"
	"ledger-service-go/internal/memory"
	"ledger-service-go/internal/models"
	"ledger-service-go/internal/redisstore"
	"ledger-service-go/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store  store.Backend
	Locks  *keylock.KeyLock
	Ledger *ledger.Service
	// Redis is set when the redis backend or idempotency is enabled
	Redis *redis.Client
}

func InitializeLogger(level string) (*zap.Logger, func()) {
	build := zap.NewProduction
	if strings.EqualFold(level, "debug") {
		build = zap.NewDevelopment
	}

	logger, err := build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices builds the configured store and the ledger on top of a
// single key lock shared by every request.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	services := &Services{Locks: keylock.New()}

	if cfg.Store.Backend == config.BackendRedis || cfg.Server.IdempotencyEnabled {
		rdb, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		services.Redis = rdb
	}

	backend, err := InitializeStore(ctx, cfg, services.Redis)
	if err != nil {
		services.Close()
		return nil, err
	}
	services.Store = backend

	services.Ledger = ledger.NewService(backend, services.Locks, ledger.WithTransferLog(backend))

	if cfg.SeedAccountsFile != "" {
		seeds, err := LoadSeedAccounts(cfg.SeedAccountsFile)
		if err != nil {
			services.Close()
			return nil, err
		}
		if err := SeedAccounts(ctx, services.Ledger, seeds); err != nil {
			services.Close()
			return nil, err
		}
	}

	zap.L().Info("Ledger services initialized", zap.String("backend", cfg.Store.Backend))
	return services, nil
}

// InitializeStore opens only the account store. rdb is required for the
// redis backend.
func InitializeStore(ctx context.Context, cfg *models.Config, rdb *redis.Client) (store.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		zap.L().Warn("Using in-memory store; balances are lost on restart")
		return memory.NewStore(), nil
	case config.BackendSQLite, config.BackendPostgres:
		return database.NewService(ctx, cfg.Database)
	case config.BackendRedis:
		if rdb == nil {
			var err error
			if rdb, err = redisstore.NewClient(ctx, cfg.Redis); err != nil {
				return nil, err
			}
		}
		return redisstore.New(rdb), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (s *Services) Close() {
	if s.Store != nil {
		// the redis store owns s.Redis and closes it
		s.Store.Close()
		if _, ok := s.Store.(*redisstore.Store); ok {
			return
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			zap.L().Warn("Failed to close redis client", zap.Error(err))
		}
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
