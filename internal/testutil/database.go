package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/api/internal/database/migrations"
	"github.com/linkboard/api/internal/database/sqldb"
	"github.com/linkboard/api/internal/platform/config"
)

// NewSQLiteClient returns a migrated client backed by a fresh database file in
// the test's temp dir. The client is closed when the test finishes.
func NewSQLiteClient(t *testing.T) *sqldb.Client {
	t.Helper()

	ctx := context.Background()
	client, err := sqldb.NewSQLiteClient(ctx, config.SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "linkboard_test.db"),
		BusyTimeout: 10 * time.Second,
	})
	require.NoError(t, err, "failed to open sqlite database")
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, migrations.Apply(ctx, client), "failed to apply migrations")
	return client
}

// NewPostgresClient connects to the database described by POSTGRES_* variables.
// Tests are skipped unless RUN_DB_TESTS=1.
func NewPostgresClient(t *testing.T) *sqldb.Client {
	t.Helper()

	if os.Getenv("RUN_DB_TESTS") != "1" {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)

	ctx := context.Background()
	client, err := sqldb.NewPostgresClient(ctx, cfg.Database.Postgres)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, migrations.Apply(ctx, client), "failed to apply migrations")
	return client
}

// ForEachDriver runs fn against SQLite and, when RUN_DB_TESTS=1, PostgreSQL
func ForEachDriver(t *testing.T, fn func(t *testing.T, client *sqldb.Client)) {
	t.Helper()

	t.Run(config.DriverSQLite, func(t *testing.T) {
		fn(t, NewSQLiteClient(t))
	})
	t.Run(config.DriverPostgres, func(t *testing.T) {
		fn(t, NewPostgresClient(t))
	})
}

// UniqueName returns prefix with a random suffix so seeded rows never collide
// with rows left by earlier runs against a shared database
func UniqueName(prefix string) string {
	return prefix + "_" + uuid.Must(uuid.NewV4()).String()[:8]
}

// SeedUser inserts a user row directly and returns its id.
// The stored username is made unique with UniqueName.
func SeedUser(t *testing.T, client *sqldb.Client, username string) int64 {
	t.Helper()

	username = UniqueName(username)
	now := time.Now().UTC()
	query := client.Rebind(`
		INSERT INTO users (username, email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := client.DB().QueryRowxContext(context.Background(), query,
		username, fmt.Sprintf("%s@example.com", username), "hashed", now, now).Scan(&id)
	require.NoError(t, err, "failed to seed user %s", username)
	return id
}

// SeedPost inserts a post row directly and returns its id
func SeedPost(t *testing.T, client *sqldb.Client, creatorID int64, title string) int64 {
	t.Helper()

	now := time.Now().UTC()
	query := client.Rebind(`
		INSERT INTO posts (title, text, score, creator_id, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := client.DB().QueryRowxContext(context.Background(), query,
		title, "body of "+title, creatorID, now, now).Scan(&id)
	require.NoError(t, err, "failed to seed post %s", title)
	return id
}

// PostScore reads the stored score of a post
func PostScore(t *testing.T, client *sqldb.Client, postID int64) int64 {
	t.Helper()

	var score int64
	err := client.DB().GetContext(context.Background(), &score,
		client.Rebind(`SELECT score FROM posts WHERE id = ?`), postID)
	require.NoError(t, err)
	return score
}

// CountVotes counts ledger rows for a post
func CountVotes(t *testing.T, client *sqldb.Client, postID int64) int {
	t.Helper()

	var n int
	err := client.DB().GetContext(context.Background(), &n,
		client.Rebind(`SELECT COUNT(*) FROM votes WHERE post_id = ?`), postID)
	require.NoError(t, err)
	return n
}
