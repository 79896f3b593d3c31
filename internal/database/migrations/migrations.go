package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/uptrace/bun"

	"ms-calendar/internal/config"
	"ms-calendar/internal/database"
	"ms-calendar/internal/logger"
)

//go:embed sql/mysql/*.sql sql/postgres/*.sql
var sqlFiles embed.FS

// ErrUnsupportedDriver is returned for drivers without SQL migrations.
var ErrUnsupportedDriver = errors.New("no migrations for driver")

// Runner applies the embedded schema migrations for one driver.
type Runner struct {
	bunDB    *bun.DB
	driver   string
	logger   *logger.Logger
	migrator *migrate.Migrate
}

func NewRunner(bunDB *bun.DB, driver string, log *logger.Logger) (*Runner, error) {
	switch driver {
	case config.DriverMySQL, config.DriverPostgres:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, driver)
	}
	return &Runner{bunDB: bunDB, driver: driver, logger: log}, nil
}

// Initialize prepares the migration system
func (r *Runner) Initialize() error {
	source, err := iofs.New(sqlFiles, "sql/"+r.driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	var driver migratedb.Driver
	switch r.driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(r.bunDB.DB, &postgres.Config{})
	default:
		driver, err = mysql.WithInstance(r.bunDB.DB, &mysql.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migration driver: %w", r.driver, err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, r.driver, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	r.migrator = migrator
	return nil
}

// MigrateUp runs all pending migrations, repairing a dirty version first.
func (r *Runner) MigrateUp() error {
	if r.migrator == nil {
		if err := r.Initialize(); err != nil {
			return err
		}
	}

	version, dirty, err := r.migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		r.logger.Warn("MIGRATE", fmt.Sprintf("Detected dirty migration %d, forcing it before retrying", version))
		if err := r.migrator.Force(int(version)); err != nil {
			return fmt.Errorf("failed to fix dirty migration: %w", err)
		}
	}

	if err := r.migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	if version, _, err := r.migrator.Version(); err == nil {
		r.logger.Info("MIGRATE", fmt.Sprintf("Current schema version: %d", version))
	}
	return nil
}

// MigrateDown rolls back all migrations
func (r *Runner) MigrateDown() error {
	if r.migrator == nil {
		if err := r.Initialize(); err != nil {
			return err
		}
	}

	if err := r.migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Close releases the migration source. The database handle is owned by the
// caller and stays open.
func (r *Runner) Close() error {
	if r.migrator == nil {
		return nil
	}
	sourceErr, _ := r.migrator.Close()
	if sourceErr != nil {
		return fmt.Errorf("error closing migrator source: %w", sourceErr)
	}
	return nil
}

// Apply brings the schema up to date. sqlite has no SQL migrations and
// gets its table from the bun model instead.
func Apply(ctx context.Context, bunDB *bun.DB, driver string, log *logger.Logger) error {
	if driver == config.DriverSQLite {
		log.Info("MIGRATE", "Creating sqlite schema from models")
		return database.CreateSchema(ctx, bunDB)
	}

	runner, err := NewRunner(bunDB, driver, log)
	if err != nil {
		return err
	}
	defer runner.Close()

	log.Info("MIGRATE", fmt.Sprintf("Running %s migrations", driver))
	return runner.MigrateUp()
}
