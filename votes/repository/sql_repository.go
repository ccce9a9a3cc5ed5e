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
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/linkboard/api/internal/database/sqldb"
	voteErrors "github.com/linkboard/api/votes/errors"
	"github.com/linkboard/api/votes/models"
)

// sqlVoteRepository implements VoteRepository using raw SQL queries
type sqlVoteRepository struct {
	client *sqldb.Client
}

// NewSQLVoteRepository creates a new SQL repository for votes
func NewSQLVoteRepository(client *sqldb.Client) VoteRepository {
	return &sqlVoteRepository{client: client}
}

// Find retrieves a user's vote on a specific post
func (r *sqlVoteRepository) Find(ctx context.Context, userID, postID int64) (*models.Vote, error) {
	query := r.client.Rebind(`
		SELECT user_id, post_id, value, created_at, updated_at
		FROM votes
		WHERE user_id = ? AND post_id = ?
	`)

	var vote models.Vote
	err := sqlx.GetContext(ctx, r.client.Executor(ctx), &vote, query, userID, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d post %d: %w", userID, postID, voteErrors.ErrVoteNotFound)
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return &vote, nil
}

// Insert records a first vote for (user, post)
func (r *sqlVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	if !vote.Value.Valid() {
		return fmt.Errorf("direction %d: %w", int(vote.Value), voteErrors.ErrInvalidVoteData)
	}

	now := time.Now().UTC()
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = now
	}
	vote.UpdatedAt = vote.CreatedAt

	query := `
		INSERT INTO votes (user_id, post_id, value, created_at, updated_at)
		VALUES (:user_id, :post_id, :value, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.client.Executor(ctx), query, vote)
	if err != nil {
		switch {
		case sqldb.IsUniqueViolation(err):
			return fmt.Errorf("user %d post %d: %w", vote.UserID, vote.PostID, voteErrors.ErrDuplicateVote)
		case sqldb.IsForeignKeyViolation(err):
			return fmt.Errorf("post %d: %w", vote.PostID, voteErrors.ErrPostNotFound)
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// UpdateValue changes the direction of an existing vote
func (r *sqlVoteRepository) UpdateValue(ctx context.Context, userID, postID int64, value models.Direction) error {
	if !value.Valid() {
		return fmt.Errorf("direction %d: %w", int(value), voteErrors.ErrInvalidVoteData)
	}

	query := r.client.Rebind(`
		UPDATE votes
		SET value = ?, updated_at = ?
		WHERE user_id = ? AND post_id = ?
	`)

	result, err := r.client.Executor(ctx).ExecContext(ctx, query, value, time.Now().UTC(), userID, postID)
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d post %d: %w", userID, postID, voteErrors.ErrVoteNotFound)
	}
	return nil
}

// FindMany bulk retrieves votes for a set of (user, post) keys in one query.
// Keys are grouped by user so the query stays one OR term per viewer.
func (r *sqlVoteRepository) FindMany(ctx context.Context, keys []models.Key) (map[models.Key]*models.Vote, error) {
	result := make(map[models.Key]*models.Vote, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	postsByUser := make(map[int64][]int64)
	var users []int64
	for _, k := range keys {
		if _, ok := postsByUser[k.UserID]; !ok {
			users = append(users, k.UserID)
		}
		postsByUser[k.UserID] = append(postsByUser[k.UserID], k.PostID)
	}

	clauses := make([]string, 0, len(users))
	args := make([]interface{}, 0, len(users)*2)
	for _, userID := range users {
		clauses = append(clauses, "(user_id = ? AND post_id IN (?))")
		args = append(args, userID, postsByUser[userID])
	}

	query, args, err := sqlx.In(`
		SELECT user_id, post_id, value, created_at, updated_at
		FROM votes
		WHERE `+strings.Join(clauses, " OR "), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build bulk vote query: %w", err)
	}

	var votes []*models.Vote
	if err := sqlx.SelectContext(ctx, r.client.Executor(ctx), &votes, r.client.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to find votes: %w", err)
	}

	for _, v := range votes {
		result[v.Key()] = v
	}
	return result, nil
}

// SumForPost recomputes the score of a post from the ledger
func (r *sqlVoteRepository) SumForPost(ctx context.Context, postID int64) (int64, error) {
	query := r.client.Rebind(`SELECT COALESCE(SUM(value), 0) FROM votes WHERE post_id = ?`)

	var sum int64
	if err := sqlx.GetContext(ctx, r.client.Executor(ctx), &sum, query, postID); err != nil {
		return 0, fmt.Errorf("failed to sum votes: %w", err)
	}
	return sum, nil
}
