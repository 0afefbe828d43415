package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskdesk/internal/dbx"
	"github.com/dmitrijs2005/taskdesk/internal/server/migrations"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) DriverName() string { return "pgx" }

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// RunMigrations applies the embedded postgres migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "pgx", migrations.PostgresDir)
}
