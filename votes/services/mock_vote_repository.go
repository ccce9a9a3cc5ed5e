// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linkboard/api/votes/models"
	voteRepository "github.com/linkboard/api/votes/repository"
)

// MockVoteRepository is a mock implementation of VoteRepository for testing
type MockVoteRepository struct {
	mock.Mock
}

// Ensure MockVoteRepository implements VoteRepository
var _ voteRepository.VoteRepository = (*MockVoteRepository)(nil)

// Find mocks the Find method
func (m *MockVoteRepository) Find(ctx context.Context, userID, postID int64) (*models.Vote, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

// Insert mocks the Insert method
func (m *MockVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

// UpdateValue mocks the UpdateValue method
func (m *MockVoteRepository) UpdateValue(ctx context.Context, userID, postID int64, value models.Direction) error {
	args := m.Called(ctx, userID, postID, value)
	return args.Error(0)
}

// FindMany mocks the FindMany method
func (m *MockVoteRepository) FindMany(ctx context.Context, keys []models.Key) (map[models.Key]*models.Vote, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Key]*models.Vote), args.Error(1)
}

// SumForPost mocks the SumForPost method
func (m *MockVoteRepository) SumForPost(ctx context.Context, postID int64) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}
