// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/linkboard/api/internal/database/sqldb"
	postErrors "github.com/linkboard/api/posts/errors"
	"github.com/linkboard/api/posts/models"
)

type sqlRepository struct {
	client *sqldb.Client
}

// NewSQLRepository creates a new SQL-backed post repository
func NewSQLRepository(client *sqldb.Client) PostRepository {
	return &sqlRepository{client: client}
}

// Create inserts a new post
func (r *sqlRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Score = 0

	query := r.client.Rebind(`
		INSERT INTO posts (title, text, score, creator_id, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
		RETURNING id
	`)

	err := r.client.Executor(ctx).QueryRowxContext(ctx, query,
		post.Title, post.Text, post.CreatorID, post.CreatedAt, post.UpdatedAt).Scan(&post.ID)
	if err != nil {
		if sqldb.IsForeignKeyViolation(err) {
			return fmt.Errorf("creator %d: %w", post.CreatorID, postErrors.ErrCreatorNotFound)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its ID
func (r *sqlRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	query := r.client.Rebind(`
		SELECT id, title, text, score, creator_id, created_at, updated_at
		FROM posts
		WHERE id = ?
	`)

	var post models.Post
	err := sqlx.GetContext(ctx, r.client.Executor(ctx), &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d: %w", id, postErrors.ErrPostNotFound)
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return &post, nil
}

// Find retrieves posts newest first
func (r *sqlRepository) Find(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	query := r.client.Rebind(`
		SELECT id, title, text, score, creator_id, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)

	var posts []*models.Post
	if err := sqlx.SelectContext(ctx, r.client.Executor(ctx), &posts, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	return posts, nil
}

// Delete removes a post by ID
func (r *sqlRepository) Delete(ctx context.Context, id int64) error {
	query := r.client.Rebind(`DELETE FROM posts WHERE id = ?`)

	result, err := r.client.Executor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post %d: %w", id, postErrors.ErrPostNotFound)
	}
	return nil
}

// LockForScore reads the post row inside the current transaction.
// On PostgreSQL the row stays locked until commit, so concurrent votes on the
// same post queue here and read the ledger only after the previous vote lands.
func (r *sqlRepository) LockForScore(ctx context.Context, postID int64) (int64, error) {
	query := `SELECT score FROM posts WHERE id = ?`
	if r.client.SupportsRowLocks() {
		query += ` FOR UPDATE`
	}

	var score int64
	err := sqlx.GetContext(ctx, r.client.Executor(ctx), &score, r.client.Rebind(query), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("post %d: %w", postID, postErrors.ErrPostNotFound)
		}
		return 0, fmt.Errorf("failed to lock post: %w", err)
	}
	return score, nil
}

// ApplyScoreDelta atomically adds delta to the score of a post
func (r *sqlRepository) ApplyScoreDelta(ctx context.Context, postID int64, delta int) error {
	query := r.client.Rebind(`
		UPDATE posts
		SET score = score + ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.client.Executor(ctx).ExecContext(ctx, query, delta, time.Now().UTC(), postID)
	if err != nil {
		return fmt.Errorf("failed to apply score delta: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post %d: %w", postID, postErrors.ErrPostNotFound)
	}
	return nil
}

// WithTransaction executes a function within a database transaction
func (r *sqlRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return r.client.WithTransaction(ctx, fn)
}
