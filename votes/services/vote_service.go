// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkboard/api/internal/pkg/log"
	voteErrors "github.com/linkboard/api/votes/errors"
	"github.com/linkboard/api/votes/models"
	voteRepository "github.com/linkboard/api/votes/repository"
)

// ScoreStore is the part of the post repository a vote needs: the score row
// and the transaction that spans ledger and score
type ScoreStore interface {
	LockForScore(ctx context.Context, postID int64) (int64, error)
	ApplyScoreDelta(ctx context.Context, postID int64, delta int) error
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// VoteService defines the interface for vote operations
type VoteService interface {
	// CastVote records userID's vote on postID and adjusts the post score in
	// one transaction. rawValue -1 is a down-vote, anything else an up-vote.
	CastVote(ctx context.Context, userID, postID int64, rawValue int) (models.Transition, error)
}

// voteService implements the VoteService interface
type voteService struct {
	voteRepo voteRepository.VoteRepository
	scores   ScoreStore
}

// NewVoteService creates a new instance of the vote service
func NewVoteService(voteRepo voteRepository.VoteRepository, scores ScoreStore) VoteService {
	return &voteService{
		voteRepo: voteRepo,
		scores:   scores,
	}
}

// CastVote handles the three vote transitions atomically:
//   - Insert: no entry yet, record it and add the direction
//   - NoOp: same direction already recorded, write nothing
//   - Flip: opposite direction recorded, update it and add twice the direction
func (s *voteService) CastVote(ctx context.Context, userID, postID int64, rawValue int) (models.Transition, error) {
	direction := models.NormalizeDirection(rawValue)

	var transition models.Transition
	err := s.scores.WithTransaction(ctx, func(txCtx context.Context) error {
		// Serializes votes on this post; the ledger read below sees the last commit.
		if _, err := s.scores.LockForScore(txCtx, postID); err != nil {
			return fmt.Errorf("failed to lock post: %w", err)
		}

		existing, err := s.voteRepo.Find(txCtx, userID, postID)
		if err != nil {
			if !errors.Is(err, voteErrors.ErrVoteNotFound) {
				return fmt.Errorf("failed to find existing vote: %w", err)
			}
			existing = nil
		}

		switch {
		case existing == nil:
			vote := &models.Vote{UserID: userID, PostID: postID, Value: direction}
			if err := s.voteRepo.Insert(txCtx, vote); err != nil {
				return fmt.Errorf("failed to record vote: %w", err)
			}
			transition = models.TransitionInsert
		case existing.Value == direction:
			transition = models.TransitionNoOp
			return nil
		default:
			if err := s.voteRepo.UpdateValue(txCtx, userID, postID, direction); err != nil {
				return fmt.Errorf("failed to flip vote: %w", err)
			}
			transition = models.TransitionFlip
		}

		delta := models.ScoreDelta(existing, direction)
		if err := s.scores.ApplyScoreDelta(txCtx, postID, delta); err != nil {
			if errors.Is(err, voteErrors.ErrPostNotFound) {
				return fmt.Errorf("post %d vanished while holding its lock: %w: %v",
					postID, voteErrors.ErrIntegrityViolation, err)
			}
			return fmt.Errorf("failed to apply score delta: %w", err)
		}
		return nil
	})
	if err != nil {
		log.WarnWithContext(ctx, "vote by user %d on post %d failed: %v", userID, postID, err)
		return "", err
	}

	log.InfoWithContext(ctx, "vote by user %d on post %d: %s %s", userID, postID, transition, direction)
	return transition, nil
}
