// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/linkboard/api/posts/models"
)

// PostRepository defines the interface for post-specific database operations.
// It also owns the post score: ApplyScoreDelta is the only writer of posts.score.
type PostRepository interface {
	// Create inserts a new post and sets its generated ID
	Create(ctx context.Context, post *models.Post) error

	// FindByID retrieves a post by its ID
	FindByID(ctx context.Context, id int64) (*models.Post, error)

	// Find retrieves posts newest first with pagination
	Find(ctx context.Context, limit, offset int) ([]*models.Post, error)

	// Delete removes a post. Its ledger rows are removed by cascade.
	Delete(ctx context.Context, id int64) error

	// LockForScore reads the post's score and, where the database supports it,
	// holds a row lock until the surrounding transaction ends
	LockForScore(ctx context.Context, postID int64) (int64, error)

	// ApplyScoreDelta atomically adds delta to the post's score
	ApplyScoreDelta(ctx context.Context, postID int64, delta int) error

	// WithTransaction executes a function within a database transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
