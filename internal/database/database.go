package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"

	"ms-calendar/internal/config"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/models"
)

// RetryDelay is the pause between connection attempts.
var RetryDelay = 2 * time.Second

func driverFor(name string) (string, schema.Dialect, error) {
	switch name {
	case config.DriverMySQL:
		return "mysql", mysqldialect.New(), nil
	case config.DriverPostgres:
		return "postgres", pgdialect.New(), nil
	case config.DriverSQLite:
		return sqliteshim.ShimName, sqlitedialect.New(), nil
	default:
		return "", nil, fmt.Errorf("unsupported database driver %q", name)
	}
}

// Connect opens the configured database, retrying the ping a few times
// so the service can start alongside its database container.
func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, error) {
	driverName, dialect, err := driverFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(driverName, cfg.Database.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Database.Driver, err)
	}
	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	retries := cfg.Database.ConnectRetries
	if retries < 1 {
		retries = 1
	}
	for i := 0; i < retries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to %s (attempt %d/%d)", cfg.Database.Driver, i+1, retries))

		pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.QueryTimeout)
		err = sqldb.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Database.Driver, err))
		if i < retries-1 {
			select {
			case <-ctx.Done():
				sqldb.Close()
				return nil, ctx.Err()
			case <-time.After(RetryDelay):
			}
		}
	}
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", cfg.Database.Driver, retries, err)
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Database.Driver))
	return bun.NewDB(sqldb, dialect), nil
}

// CreateSchema creates the events table from the bun model. Used for
// sqlite, which the SQL migrations do not cover.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*models.Event)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return nil
}
