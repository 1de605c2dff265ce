package database

import (
	"database/sql"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/username/mtop/backend/src/logger"
	_ "modernc.org/sqlite"
)

// DB is the process-wide database handle.
var DB *sql.DB

// InitDB opens the SQLite database with WAL journaling, a busy timeout and
// foreign keys enabled. SQLite locks whole files, so the pool is capped at
// one open connection.
func InitDB(databasePath string) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", databasePath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		stdlog.Fatalf("failed to ping database: %v", err)
	}
	DB = db
	logger.L.Info("Database connection established", "path", databasePath)
}

// RunMigrations applies the SQL migrations under db/migrations.
func RunMigrations(databasePath string) {
	if DB == nil {
		stdlog.Fatal("database connection is not initialized before running migrations")
	}

	driver, err := sqlite.WithInstance(DB, &sqlite.Config{})
	if err != nil {
		stdlog.Fatalf("could not create sqlite migration driver: %v", err)
	}

	migrationsDir := os.Getenv("MIGRATIONS_PATH")
	if migrationsDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			stdlog.Fatalf("failed to get current working directory: %v", err)
		}
		migrationsDir = filepath.Join(cwd, "db", "migrations")
	}
	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(migrationsDir))

	m, err := migrate.NewWithDatabaseInstance(sourceURL, databasePath, driver)
	if err != nil {
		stdlog.Fatalf("migration instance creation failed (source %s): %v", sourceURL, err)
	}

	logger.L.Info("Applying database migrations...", "source", sourceURL)
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.L.Info("No new database migrations to apply.")
			return
		}
		stdlog.Fatalf("failed to apply migrations: %v", err)
	}
	logger.L.Info("Database migrations applied successfully.")
}
