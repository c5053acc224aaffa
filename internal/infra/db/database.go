// Package db opens the feedlot database.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boi-gordo/backend/config"
)

const (
	sqliteScheme  = "sqlite://"
	sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	pingTimeout   = 5 * time.Second
)

// Database is an open GORM connection and the driver behind it.
type Database struct {
	db     *gorm.DB
	driver string
}

// NewConnection opens the database named by cfg.URL. Postgres DSNs use the
// postgres driver; sqlite://<path> opens a local file database.
func NewConnection(cfg *config.DatabaseConfig) (*Database, error) {
	dialector, driver := dialectorFor(cfg.URL)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: queryLogger(cfg.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows one writer at a time.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	database := &Database{db: db, driver: driver}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	slog.Info("Database connection established",
		"driver", driver,
		"max_open_conns", sqlDB.Stats().MaxOpenConnections,
		"slow_query_threshold", cfg.SlowQueryThreshold,
	)
	return database, nil
}

func dialectorFor(url string) (gorm.Dialector, string) {
	if path, ok := strings.CutPrefix(url, sqliteScheme); ok {
		separator := "?"
		if strings.Contains(path, "?") {
			separator = "&"
		}
		return sqlite.Open(path + separator + sqlitePragmas), "sqlite"
	}
	return postgres.Open(url), "postgres"
}

// queryLogger reports failed statements and statements slower than threshold
// through slog. A zero threshold only reports failures.
func queryLogger(threshold time.Duration) logger.Interface {
	return logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             threshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// DB returns the GORM handle.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Driver names the SQL driver in use, postgres or sqlite.
func (d *Database) Driver() string {
	return d.driver
}

// Ping checks the connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", d.driver, err)
	}
	return nil
}

// Close closes the connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	slog.Info("Database connection closed", "driver", d.driver)
	return nil
}
