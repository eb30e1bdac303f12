package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/BMMUGOMBA/terminal-pulse/pkg/config"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/postgres"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/sqlite"
)

// SetupTestPostgres connects to TEST_POSTGRES_DSN and skips the test when it
// is not set.
func SetupTestPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	require.NoError(t, postgres.UpMigrations(context.Background(), dsn))

	pool, err := postgres.Connect(context.Background(), config.Postgres{DSN: dsn, MaxConn: 10, ConnectAttempts: 3})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// SetupTestSQLite opens a migrated database in a temp dir.
func SetupTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "pulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.UpMigrations(context.Background(), db))

	return NewSQLiteStorage(db)
}
