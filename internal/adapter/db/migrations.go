package db

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration for the driver of db.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	return withGoose(db, func(dir string) error {
		if err := goose.UpContext(ctx, db.DB, dir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, db *sqlx.DB) error {
	return withGoose(db, func(dir string) error {
		if err := goose.DownContext(ctx, db.DB, dir); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		return nil
	})
}

// MigrationStatus logs the state of every migration through goose's logger.
func MigrationStatus(ctx context.Context, db *sqlx.DB) error {
	return withGoose(db, func(dir string) error {
		return goose.StatusContext(ctx, db.DB, dir)
	})
}

func withGoose(db *sqlx.DB, run func(dir string) error) error {
	dialect := Dialect(db)

	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect %s: %w", dialect, err)
	}

	dir := "migrations/mysql"
	if dialect == "sqlite3" {
		dir = "migrations/sqlite"
	}
	return run(dir)
}
