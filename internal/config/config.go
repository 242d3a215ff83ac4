package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// DBDriver selects the database adapter the bank server stores snapshots through.
type DBDriver string

const (
	DriverPGX  DBDriver = "pgx"
	DriverSQL  DBDriver = "sql"
	DriverSQLX DBDriver = "sqlx"
)

// ErrUnknownDBDriver is returned when BANKSERVER_DB_DRIVER names no known adapter.
var ErrUnknownDBDriver = errors.New("unknown database driver")

// ClientConfig configures the ironbank CLI.
type ClientConfig struct {
	LogLevel slog.Level `env:"IRONBANK_LOG_LEVEL" envDefault:"info"`
}

// ServerConfig configures the bankserver binary.
type ServerConfig struct {
	ListenAddr  string     `env:"BANKSERVER_LISTEN_ADDR" envDefault:":8080"`
	DatabaseDSN string     `env:"BANKSERVER_DATABASE_DSN,required,notEmpty"`
	DBDriver    DBDriver   `env:"BANKSERVER_DB_DRIVER" envDefault:"pgx"`
	TableName   string     `env:"BANKSERVER_TABLE_NAME" envDefault:"bank_snapshots"`
	LogLevel    slog.Level `env:"BANKSERVER_LOG_LEVEL" envDefault:"info"`
}

// LoadClientConfig parses the CLI configuration from the environment.
func LoadClientConfig() (ClientConfig, error) {
	var cfg ClientConfig
	if err := ParseEnv(&cfg); err != nil {
		return ClientConfig{}, err
	}

	return cfg, nil
}

// LoadServerConfig parses and validates the server configuration from the environment.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}

	if err := cfg.DBDriver.Validate(); err != nil {
		return ServerConfig{}, err
	}

	return cfg, nil
}

// Validate reports whether the driver is one of the supported adapters.
func (d DBDriver) Validate() error {
	switch d {
	case DriverPGX, DriverSQL, DriverSQLX:
		return nil
	default:
		return errors.Join(ErrUnknownDBDriver, fmt.Errorf("driver %q", string(d)))
	}
}

// NewLogger builds the text logger both binaries write their diagnostics with.
func NewLogger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
