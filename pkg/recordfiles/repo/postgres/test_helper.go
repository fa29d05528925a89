package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestDB represents a test database connection
type TestDB struct {
	Pool *pgxpool.Pool
}

// NewTestDB connects to the database named by TEST_DATABASE_URL.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")

	err = pool.Ping(ctx)
	require.NoError(t, err, "Failed to ping test database")

	return &TestDB{Pool: pool}
}

// Setup initializes the test database with required tables
func (db *TestDB) Setup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS record (
			id              UUID PRIMARY KEY,
			default_preview TEXT NOT NULL DEFAULT '',
			access          TEXT NOT NULL DEFAULT '',
			metadata        JSONB,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	require.NoError(t, err, "Failed to create record table")

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS record_file (
			record_id            UUID NOT NULL REFERENCES record (id),
			key                  TEXT NOT NULL,
			checksum             TEXT NOT NULL DEFAULT '',
			size                 BIGINT NOT NULL DEFAULT 0,
			bucket_id            UUID NOT NULL,
			object_key           TEXT NOT NULL,
			version_id           UUID NOT NULL,
			storage_backend_name TEXT NOT NULL DEFAULT '',
			mime_type            TEXT NOT NULL DEFAULT '',
			metadata             JSONB,
			created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (record_id, key)
		)
	`)
	require.NoError(t, err, "Failed to create record_file table")

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pid (
			pid_type  TEXT NOT NULL,
			pid_value TEXT NOT NULL,
			record_id UUID NOT NULL REFERENCES record (id),
			PRIMARY KEY (pid_type, pid_value)
		)
	`)
	require.NoError(t, err, "Failed to create pid table")
}

// Cleanup removes all test data from the database
func (db *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, "TRUNCATE pid CASCADE")
	require.NoError(t, err, "Failed to truncate pid table")

	_, err = db.Pool.Exec(ctx, "TRUNCATE record_file CASCADE")
	require.NoError(t, err, "Failed to truncate record_file table")

	_, err = db.Pool.Exec(ctx, "TRUNCATE record CASCADE")
	require.NoError(t, err, "Failed to truncate record table")
}

// Close closes the database connection
func (db *TestDB) Close(t *testing.T) {
	t.Helper()
	db.Pool.Close()
}

// RunTest runs a test with database setup and cleanup
func RunTest(t *testing.T, testFunc func(t *testing.T, db *TestDB)) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db := NewTestDB(t)
	defer db.Close(t)

	db.Setup(t)

	t.Run("", func(t *testing.T) {
		db.Cleanup(t)
		testFunc(t, db)
	})
}
