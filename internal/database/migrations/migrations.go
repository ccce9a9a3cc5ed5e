// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package migrations

import (
	"context"
	"fmt"

	"github.com/linkboard/api/internal/database/sqldb"
	"github.com/linkboard/api/internal/platform/config"
)

// postgresSchema creates users, posts and the votes ledger.
// The ledger key (user_id, post_id) is the primary key, so the database itself
// rejects a second row for the same pair.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		text TEXT NOT NULL,
		score BIGINT NOT NULL DEFAULT 0,
		creator_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_creator ON posts(creator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS votes (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		value SMALLINT NOT NULL CHECK (value IN (1, -1)),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, post_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_post_id ON votes(post_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		text TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		creator_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_creator ON posts(creator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS votes (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		value INTEGER NOT NULL CHECK (value IN (1, -1)),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, post_id)
	) WITHOUT ROWID`,
	`CREATE INDEX IF NOT EXISTS idx_votes_post_id ON votes(post_id)`,
}

// Apply creates the schema for the client's driver. It is idempotent.
func Apply(ctx context.Context, client *sqldb.Client) error {
	statements, err := schemaFor(client.Driver())
	if err != nil {
		return err
	}

	return client.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := client.Executor(txCtx)
		for i, stmt := range statements {
			if _, err := exec.ExecContext(txCtx, stmt); err != nil {
				return fmt.Errorf("failed to apply migration statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}

func schemaFor(driver string) ([]string, error) {
	switch driver {
	case config.DriverPostgres:
		return postgresSchema, nil
	case config.DriverSQLite:
		return sqliteSchema, nil
	default:
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
}
