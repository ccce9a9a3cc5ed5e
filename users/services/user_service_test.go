// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userErrors "github.com/linkboard/api/users/errors"
	"github.com/linkboard/api/users/models"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and stores", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "frank" && u.Email == "frank@example.com" && u.Password == "hash"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 11
		}).Return(nil)

		user, err := service.CreateUser(ctx, &models.CreateUserRequest{
			Username: " frank ", Email: "Frank@Example.com", PasswordHash: "hash",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(11), user.ID)
		repo.AssertExpectations(t)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo)

		_, err := service.CreateUser(ctx, &models.CreateUserRequest{Username: "x@", Email: "nope", PasswordHash: "h"})

		assert.True(t, errors.Is(err, userErrors.ErrValidationFailed))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("taken username propagates", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := NewUserService(repo)

		repo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("username: %w", userErrors.ErrUsernameTaken))

		_, err := service.CreateUser(ctx, &models.CreateUserRequest{Username: "grace", Email: "g@example.com", PasswordHash: "hash"})

		assert.True(t, errors.Is(err, userErrors.ErrUsernameTaken))
	})
}

func TestUserService_FindByLogin(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	service := NewUserService(repo)

	repo.On("FindByUsernameOrEmail", ctx, "heidi@example.com").Return(&models.User{ID: 4}, nil)
	repo.On("FindByUsernameOrEmail", ctx, "Heidi").Return(&models.User{ID: 4}, nil)

	u, err := service.FindByLogin(ctx, " HEIDI@example.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(4), u.ID)

	u, err = service.FindByLogin(ctx, "Heidi")
	require.NoError(t, err)
	assert.Equal(t, int64(4), u.ID)
	repo.AssertExpectations(t)
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	service := NewUserService(repo)

	repo.On("FindByID", ctx, int64(99)).Return(nil, userErrors.ErrUserNotFound)

	_, err := service.GetUser(ctx, 99)
	assert.True(t, errors.Is(err, userErrors.ErrUserNotFound))
}
