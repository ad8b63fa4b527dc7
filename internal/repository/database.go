package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"review-service/internal/apperrors"
	"review-service/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver, registered as "sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// sqliteBusyTimeout makes concurrent writers wait on the database lock
// instead of failing immediately with SQLITE_BUSY.
const sqliteBusyTimeout = "_pragma=busy_timeout(5000)"

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// dataSource returns the driver name and DSN for a database type.
func dataSource(dbType, path string) (string, string, error) {
	switch dbType {
	case config.DatabaseSQLite:
		if err := ensureDir(path); err != nil {
			return "", "", err
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return "sqlite", path + sep + sqliteBusyTimeout, nil
	case config.DatabasePostgres:
		return "postgres", path, nil
	default:
		return "", "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

func ensureDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

// Connect opens and pings the database.
func Connect(dbType, path string, logger *zap.Logger) (*sqlx.DB, error) {
	driverName, dsn, err := dataSource(dbType, path)
	if err != nil {
		return nil, apperrors.StorageError("open database", err)
	}

	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, apperrors.StorageError("connect to database", err)
	}

	logger.Info("Connected to database", zap.String("type", dbType))
	return db, nil
}

// Migrate creates the review schema if it does not exist yet. It holds its
// own connection for the duration of the run and is safe to call repeatedly.
func Migrate(dbType, path string, logger *zap.Logger) (err error) {
	driverName, dsn, err := dataSource(dbType, path)
	if err != nil {
		return apperrors.StorageError("migrate", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return apperrors.StorageError("migrate: open database", err)
	}

	var driver database.Driver
	switch dbType {
	case config.DatabaseSQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case config.DatabasePostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		db.Close()
		return apperrors.StorageError("migrate: get database instance", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+dbType)
	if err != nil {
		driver.Close()
		return apperrors.StorageError("migrate: load migrations", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbType, driver)
	if err != nil {
		source.Close()
		driver.Close()
		return apperrors.StorageError("migrate: create migrate instance", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
			if err != nil {
				err = apperrors.StorageError("migrate: close", err)
			}
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Database schema is up to date")
			return nil
		}
		return apperrors.StorageError("migrate: apply migrations", err)
	}

	logger.Info("Database migration was run successfully")
	return nil
}
