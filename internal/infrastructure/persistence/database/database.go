// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/pkg/config"
)

// Supported driver names.
const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
}

// Options selects the driver and pool settings for a connection.
type Options struct {
	Driver          string
	DSN             string
	AuthToken       string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// OptionsFromConfig builds connection options from the environment settings.
func OptionsFromConfig() Options {
	return Options{
		Driver:          config.DBDriver,
		DSN:             config.DBDSN,
		AuthToken:       config.DBAuthToken,
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(config.DBConnMaxIdleMinutes) * time.Minute,
	}
}

// NewConnection establishes a new database connection for the configured driver.
func NewConnection(ctx context.Context, opts Options) (*DB, error) {
	dsn, err := dataSourceName(opts)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", opts.Driver, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &DB{DB: db, Driver: opts.Driver}, nil
}

// NewConnectionWithLogger establishes a new database connection with logging.
func NewConnectionWithLogger(ctx context.Context, opts Options, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Database().Debug("Creating new database connection", "driverName", opts.Driver)

	db, err := NewConnection(ctx, opts)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", opts.Driver)
		return nil, err
	}

	duration := time.Since(start)
	logger.Database().Info("Database connection established", "driverName", opts.Driver, "duration", duration)
	CheckAndLogSlowQuery(logger, "DATABASE_CONNECTION", duration, "")

	return db, nil
}

// dataSourceName appends the auth token for remote libsql databases.
func dataSourceName(opts Options) (string, error) {
	switch opts.Driver {
	case DriverSQLite:
		if opts.DSN == "" {
			return "", fmt.Errorf("sqlite3 requires a DSN")
		}
		return opts.DSN, nil
	case DriverLibSQL:
		if opts.DSN == "" {
			return "", fmt.Errorf("libsql requires a database URL")
		}
		if opts.AuthToken == "" || strings.Contains(opts.DSN, "authToken=") {
			return opts.DSN, nil
		}
		sep := "?"
		if strings.Contains(opts.DSN, "?") {
			sep = "&"
		}
		return opts.DSN + sep + "authToken=" + opts.AuthToken, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}
