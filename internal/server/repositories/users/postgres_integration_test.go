//go:build integration

package users_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/server/models"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a throwaway Postgres and returns a migrated handle.
func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "taskdesk",
				"POSTGRES_PASSWORD": "taskdesk",
				"POSTGRES_DB":       "taskdesk",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start Postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err)

	rm := repomanager.NewPostgresRepositoryManager()
	dsn := fmt.Sprintf("postgres://taskdesk:taskdesk@%s/taskdesk?sslmode=disable", endpoint)
	db, err := sql.Open(rm.DriverName(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, rm.RunMigrations(ctx, db))
	return db
}

func TestIntegration_Postgres_CreateAndGet(t *testing.T) {
	db := setupPostgres(t)
	repo := repomanager.NewPostgresRepositoryManager().Users(db)
	ctx := context.Background()

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	_, err := repo.Create(ctx, u)
	require.NoError(t, err)

	got, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Name, got.Name)
	require.True(t, u.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestIntegration_Postgres_DuplicateEmail(t *testing.T) {
	db := setupPostgres(t)
	repo := repomanager.NewPostgresRepositoryManager().Users(db)
	ctx := context.Background()

	first := &models.User{ID: uuid.NewString(), Name: "A", Email: "dup@example.com", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	second := &models.User{ID: uuid.NewString(), Name: "B", Email: "dup@example.com", PasswordHash: "h", CreatedAt: time.Now().UTC()}

	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n))
	require.Equal(t, 1, n)
}
