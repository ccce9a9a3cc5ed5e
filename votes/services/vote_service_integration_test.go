// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/api/internal/database/sqldb"
	"github.com/linkboard/api/internal/testutil"
	postRepository "github.com/linkboard/api/posts/repository"
	voteErrors "github.com/linkboard/api/votes/errors"
	"github.com/linkboard/api/votes/models"
	voteRepository "github.com/linkboard/api/votes/repository"
)

type ledgerHarness struct {
	client   *sqldb.Client
	service  VoteService
	voteRepo voteRepository.VoteRepository
}

func newLedgerHarness(client *sqldb.Client) *ledgerHarness {
	voteRepo := voteRepository.NewSQLVoteRepository(client)
	return &ledgerHarness{
		client:   client,
		service:  NewVoteService(voteRepo, postRepository.NewSQLRepository(client)),
		voteRepo: voteRepo,
	}
}

// assertConsistent checks that the stored score equals the ledger sum
func (h *ledgerHarness) assertConsistent(t *testing.T, postID int64) {
	t.Helper()

	sum, err := h.voteRepo.SumForPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, sum, testutil.PostScore(t, h.client, postID), "score drifted from ledger")
}

func (h *ledgerHarness) cast(t *testing.T, userID, postID int64, raw int) models.Transition {
	t.Helper()

	transition, err := h.service.CastVote(context.Background(), userID, postID, raw)
	require.NoError(t, err)
	return transition
}

func TestCastVote_TwoUserScenario(t *testing.T) {
	testutil.ForEachDriver(t, func(t *testing.T, client *sqldb.Client) {
		h := newLedgerHarness(client)
		u1 := testutil.SeedUser(t, client, "u1")
		u2 := testutil.SeedUser(t, client, "u2")
		p := testutil.SeedPost(t, client, u1, "scenario")

		steps := []struct {
			user       int64
			raw        int
			transition models.Transition
			score      int64
		}{
			{u1, 1, models.TransitionInsert, 1},
			{u2, 1, models.TransitionInsert, 2},
			{u1, -1, models.TransitionFlip, 0},
			{u1, -1, models.TransitionNoOp, 0},
			{u2, 0, models.TransitionNoOp, 0},
		}

		for i, step := range steps {
			assert.Equal(t, step.transition, h.cast(t, step.user, p, step.raw), "step %d", i+1)
			assert.Equal(t, step.score, testutil.PostScore(t, client, p), "step %d", i+1)
			h.assertConsistent(t, p)
		}
		assert.Equal(t, 2, testutil.CountVotes(t, client, p))
	})
}

func TestCastVote_Idempotent(t *testing.T) {
	client := testutil.NewSQLiteClient(t)
	h := newLedgerHarness(client)
	u := testutil.SeedUser(t, client, "repeat")
	p := testutil.SeedPost(t, client, u, "idempotent")

	assert.Equal(t, models.TransitionInsert, h.cast(t, u, p, -1))
	for i := 0; i < 3; i++ {
		assert.Equal(t, models.TransitionNoOp, h.cast(t, u, p, -1))
	}

	assert.Equal(t, int64(-1), testutil.PostScore(t, client, p))
	assert.Equal(t, 1, testutil.CountVotes(t, client, p))
	h.assertConsistent(t, p)
}

func TestCastVote_FlipMovesScoreByTwo(t *testing.T) {
	client := testutil.NewSQLiteClient(t)
	h := newLedgerHarness(client)
	u := testutil.SeedUser(t, client, "flipper")
	other := testutil.SeedUser(t, client, "bystander")
	p := testutil.SeedPost(t, client, u, "flip")

	h.cast(t, other, p, 1)
	h.cast(t, u, p, 1)
	before := testutil.PostScore(t, client, p)

	assert.Equal(t, models.TransitionFlip, h.cast(t, u, p, -1))
	assert.Equal(t, before-2, testutil.PostScore(t, client, p))

	assert.Equal(t, models.TransitionFlip, h.cast(t, u, p, 1))
	assert.Equal(t, before, testutil.PostScore(t, client, p))
	h.assertConsistent(t, p)
}

func TestCastVote_UnknownPost(t *testing.T) {
	client := testutil.NewSQLiteClient(t)
	h := newLedgerHarness(client)
	u := testutil.SeedUser(t, client, "lost")

	_, err := h.service.CastVote(context.Background(), u, 123456789, 1)
	assert.True(t, errors.Is(err, voteErrors.ErrPostNotFound), "got %v", err)
	assert.False(t, errors.Is(err, voteErrors.ErrIntegrityViolation))
}

func TestCastVote_ConcurrentIdenticalVotes(t *testing.T) {
	testutil.ForEachDriver(t, func(t *testing.T, client *sqldb.Client) {
		h := newLedgerHarness(client)
		u := testutil.SeedUser(t, client, "racer")
		p := testutil.SeedPost(t, client, u, "race")

		const voters = 2
		var wg sync.WaitGroup
		transitions := make([]models.Transition, voters)
		errs := make([]error, voters)
		start := make(chan struct{})

		for i := 0; i < voters; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				transitions[i], errs[i] = h.service.CastVote(context.Background(), u, p, 1)
			}(i)
		}
		close(start)
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		assert.ElementsMatch(t, []models.Transition{models.TransitionInsert, models.TransitionNoOp}, transitions)
		assert.Equal(t, 1, testutil.CountVotes(t, client, p))
		assert.Equal(t, int64(1), testutil.PostScore(t, client, p))
		h.assertConsistent(t, p)
	})
}

func TestCastVote_ConcurrentMixedVotesKeepInvariant(t *testing.T) {
	testutil.ForEachDriver(t, func(t *testing.T, client *sqldb.Client) {
		h := newLedgerHarness(client)
		owner := testutil.SeedUser(t, client, "owner")
		p := testutil.SeedPost(t, client, owner, "busy")

		users := make([]int64, 4)
		for i := range users {
			users[i] = testutil.SeedUser(t, client, "voter")
		}

		var wg sync.WaitGroup
		for round := 0; round < 3; round++ {
			for i, u := range users {
				wg.Add(1)
				go func(u int64, raw int) {
					defer wg.Done()
					_, err := h.service.CastVote(context.Background(), u, p, raw)
					assert.NoError(t, err)
				}(u, []int{1, -1}[(i+round)%2])
			}
		}
		wg.Wait()

		assert.Equal(t, len(users), testutil.CountVotes(t, client, p))
		h.assertConsistent(t, p)
	})
}

func TestCastVote_CascadeOnPostDelete(t *testing.T) {
	client := testutil.NewSQLiteClient(t)
	h := newLedgerHarness(client)
	u := testutil.SeedUser(t, client, "cascade")
	p := testutil.SeedPost(t, client, u, "gone")
	ctx := context.Background()

	h.cast(t, u, p, 1)
	require.Equal(t, 1, testutil.CountVotes(t, client, p))

	require.NoError(t, postRepository.NewSQLRepository(client).Delete(ctx, p))

	assert.Equal(t, 0, testutil.CountVotes(t, client, p))
	_, err := h.voteRepo.Find(ctx, u, p)
	assert.True(t, errors.Is(err, voteErrors.ErrVoteNotFound))
}
