package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskdesk/internal/client/migrations"
	"github.com/dmitrijs2005/taskdesk/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local session database file at path, creating its
// directory if needed, and migrates it.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	dsn, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
