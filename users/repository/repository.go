// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/linkboard/api/users/models"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	// Create inserts a new user and sets its generated ID
	Create(ctx context.Context, user *models.User) error

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id int64) (*models.User, error)

	// FindByUsernameOrEmail retrieves a user by username, or by email when
	// the identifier contains an @
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)

	// FindByIDs bulk retrieves users. Unknown IDs are absent from the map.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
}
