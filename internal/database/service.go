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
	"ledger-service-go/internal/store"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	memoryPath = ":memory:"
)

// Compile-time check: *Service must satisfy store.Backend.
var _ store.Backend = (*Service)(nil)

type Service struct {
	db     *sqlx.DB
	driver string
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening database", zap.String("driver", cfg.Driver), zap.String("file", cfg.Path))
	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Every connection to :memory: is a separate database
	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == DriverSQLite && cfg.Path == memoryPath {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db, driver: cfg.Driver}
	if err := service.initSchema(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after schema failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully", zap.String("driver", cfg.Driver))
	return service, nil
}

func dataSource(cfg models.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("database path cannot be empty")
		}
		if cfg.Path == memoryPath {
			return cfg.Path, nil
		}
		return cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", nil
	case DriverPostgres:
		if cfg.URL == "" {
			return "", fmt.Errorf("database url cannot be empty")
		}
		return cfg.URL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(ctx context.Context) error {
	statements := schemaSQLite
	if s.driver == DriverPostgres {
		statements = schemaPostgres
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
