package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskdesk/internal/dbx"
	"github.com/dmitrijs2005/taskdesk/internal/server/migrations"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/users"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) DriverName() string { return "sqlite" }

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}
