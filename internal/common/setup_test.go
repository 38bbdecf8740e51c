package common

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ledger-service-go/internal/config"
	"ledger-service-go/internal/database"
	"ledger-service-go/internal/memory"
	"ledger-service-go/internal/models"
	"ledger-service-go/internal/redisstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices_Memory(t *testing.T) {
	cfg := &models.Config{
		Store:            models.StoreConfig{Backend: config.BackendMemory},
		SeedAccountsFile: writeSeedFile(t, "accounts:\n  - name: giver\n    balance: \"100\"\n"),
	}

	services, err := InitializeServices(context.Background(), cfg)
	require.NoError(t, err)
	defer services.Close()

	assert.IsType(t, &memory.Store{}, services.Store)
	assert.Nil(t, services.Redis)

	balance, err := services.Ledger.GetBalance(context.Background(), "giver")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestInitializeServices_SQLite(t *testing.T) {
	cfg := &models.Config{
		Store: models.StoreConfig{Backend: config.BackendSQLite},
		Database: models.DatabaseConfig{
			Driver:       database.DriverSQLite,
			Path:         filepath.Join(t.TempDir(), "ledger.db"),
			MaxOpenConns: 2,
			PingTimeout:  time.Second,
		},
	}

	services, err := InitializeServices(context.Background(), cfg)
	require.NoError(t, err)
	defer services.Close()

	assert.IsType(t, &database.Service{}, services.Store)
}

func TestInitializeServices_RedisWithIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &models.Config{
		Server: models.ServerConfig{IdempotencyEnabled: true},
		Store:  models.StoreConfig{Backend: config.BackendRedis},
		Redis:  models.RedisConfig{Host: mr.Host(), Port: port},
	}

	services, err := InitializeServices(context.Background(), cfg)
	require.NoError(t, err)
	defer services.Close()

	assert.IsType(t, &redisstore.Store{}, services.Store)
	assert.NotNil(t, services.Redis)

	_, err = services.Ledger.CreateAccount(context.Background(), "alice", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, mr.Exists("account:alice"))
}

func TestInitializeStore_UnknownBackend(t *testing.T) {
	_, err := InitializeStore(context.Background(), &models.Config{Store: models.StoreConfig{Backend: "mongo"}}, nil)
	assert.Error(t, err)
}
