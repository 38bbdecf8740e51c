package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ledger-service-go/internal/models"
	"ledger-service-go/internal/store"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sqlx.Open(DriverSQLite, memoryPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	service := &Service{db: db, driver: DriverSQLite}

	// Use the actual schema initialization
	if err := service.initSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func TestGet_UnknownAccount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	account, err := service.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if account != nil {
		t.Errorf("Expected nil account, got %+v", account)
	}
}

func TestSet_InsertThenUpdate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	amount := decimal.RequireFromString("12.345")

	if err := service.Set(ctx, models.Account{Name: "alice", Balance: amount}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	account, err := service.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !account.Balance.Equal(amount) {
		t.Errorf("Expected balance %s, got %s", amount, account.Balance)
	}

	if err := service.Set(ctx, models.Account{Name: "alice", Balance: decimal.NewFromInt(7)}); err != nil {
		t.Fatalf("Second Set failed: %v", err)
	}

	account, _ = service.Get(ctx, "alice")
	if !account.Balance.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected balance 7 after update, got %s", account.Balance)
	}

	var version int64
	if err := service.db.Get(&version, "SELECT version FROM accounts WHERE name = ?", "alice"); err != nil {
		t.Fatalf("Failed to read version: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected version 2, got %d", version)
	}
}

func TestSetMany_WritesAllAccounts(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	err := service.SetMany(ctx,
		models.Account{Name: "giver", Balance: decimal.Zero},
		models.Account{Name: "receiver", Balance: decimal.NewFromInt(300)})
	if err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}

	accounts, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Name != "giver" || !accounts[0].Balance.IsZero() {
		t.Errorf("Unexpected giver: %+v", accounts[0])
	}
	if accounts[1].Name != "receiver" || !accounts[1].Balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Unexpected receiver: %+v", accounts[1])
	}
}

func TestSetMany_EmptyBatch(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.SetMany(context.Background()); !errors.Is(err, store.ErrEmptyBatch) {
		t.Errorf("Expected ErrEmptyBatch, got %v", err)
	}
}

func TestSetMany_RollsBackOnFailure(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.Set(ctx, models.Account{Name: "giver", Balance: decimal.NewFromInt(10)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A trigger rejecting one name makes the second write fail mid-batch
	_, err := service.db.Exec(`CREATE TRIGGER reject_poison BEFORE INSERT ON accounts
		WHEN NEW.name = 'poison' BEGIN SELECT RAISE(ABORT, 'poisoned'); END`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}

	err = service.SetMany(ctx,
		models.Account{Name: "giver", Balance: decimal.Zero},
		models.Account{Name: "poison", Balance: decimal.NewFromInt(10)})
	if err == nil {
		t.Fatal("Expected SetMany to fail")
	}

	account, _ := service.Get(ctx, "giver")
	if !account.Balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected giver balance to be rolled back to 10, got %s", account.Balance)
	}
}

func TestNewService_FileDatabase(t *testing.T) {
	cfg := models.DatabaseConfig{
		Driver:          DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
		PingTimeout:     time.Second,
	}

	service, err := NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	defer service.Close()

	if err := service.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := service.Set(context.Background(), models.Account{Name: "a", Balance: decimal.NewFromInt(1)}); err != nil {
		t.Errorf("Set failed: %v", err)
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	base := models.DatabaseConfig{
		Driver:       DriverSQLite,
		Path:         memoryPath,
		MaxOpenConns: 1,
		PingTimeout:  time.Second,
	}

	tests := []struct {
		name   string
		mutate func(c *models.DatabaseConfig)
	}{
		{"empty path", func(c *models.DatabaseConfig) { c.Path = "" }},
		{"postgres without url", func(c *models.DatabaseConfig) { c.Driver = DriverPostgres }},
		{"unknown driver", func(c *models.DatabaseConfig) { c.Driver = "oracle" }},
		{"zero max open", func(c *models.DatabaseConfig) { c.MaxOpenConns = 0 }},
		{"negative max idle", func(c *models.DatabaseConfig) { c.MaxIdleConns = -1 }},
		{"zero ping timeout", func(c *models.DatabaseConfig) { c.PingTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if _, err := NewService(context.Background(), cfg); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}
