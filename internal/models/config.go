package models

import (
	"net"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server           ServerConfig
	Store            StoreConfig
	Database         DatabaseConfig
	Redis            RedisConfig
	SeedAccountsFile string
	LogLevel         string
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	IdempotencyEnabled bool
}

// StoreConfig selects the account store backend
type StoreConfig struct {
	Backend string // memory, sqlite, postgres, redis
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string
	Path            string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	DB       int
	Password string
}

// Addr returns host:port for the redis client
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
