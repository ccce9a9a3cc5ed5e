// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockScoreStore is a mock implementation of ScoreStore for testing
type MockScoreStore struct {
	mock.Mock
}

var _ ScoreStore = (*MockScoreStore)(nil)

// LockForScore mocks the LockForScore method
func (m *MockScoreStore) LockForScore(ctx context.Context, postID int64) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// ApplyScoreDelta mocks the ApplyScoreDelta method
func (m *MockScoreStore) ApplyScoreDelta(ctx context.Context, postID int64, delta int) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

// WithTransaction mocks the WithTransaction method.
// Unless an error is configured, fn runs with ctx and its error is returned.
func (m *MockScoreStore) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Get(0).(error)
	}
	if fn != nil {
		return fn(ctx)
	}
	return nil
}
