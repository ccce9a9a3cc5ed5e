// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/linkboard/api/votes/models"
)

// VoteRepository is the vote ledger: at most one entry per (user, post).
// Every method runs on the transaction carried by ctx when there is one.
type VoteRepository interface {
	// Find retrieves the ledger entry for (userID, postID)
	Find(ctx context.Context, userID, postID int64) (*models.Vote, error)

	// Insert records a new entry. The storage key rejects a second entry.
	Insert(ctx context.Context, vote *models.Vote) error

	// UpdateValue changes the direction of an existing entry
	UpdateValue(ctx context.Context, userID, postID int64, value models.Direction) error

	// FindMany bulk retrieves entries. Keys without an entry are absent from the map.
	FindMany(ctx context.Context, keys []models.Key) (map[models.Key]*models.Vote, error)

	// SumForPost recomputes a post's score from its ledger entries
	SumForPost(ctx context.Context, postID int64) (int64, error)
}
