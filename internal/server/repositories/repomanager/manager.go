// Package repomanager vends repository implementations for a storage dialect
// and applies that dialect's embedded schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskdesk/internal/dbx"
	"github.com/dmitrijs2005/taskdesk/internal/server/migrations"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	// DriverName is the database/sql driver to open connections with.
	DriverName() string
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// ForDriver returns the manager for a configured storage driver name.
func ForDriver(driver string) (RepositoryManager, error) {
	switch driver {
	case "postgres":
		return NewPostgresRepositoryManager(), nil
	case "sqlite":
		return NewSQLiteRepositoryManager(), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", driver)
}
