// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/linkboard/api/internal/pkg/log"
	"github.com/linkboard/api/users/models"
	"github.com/linkboard/api/users/repository"
	"github.com/linkboard/api/users/validation"
)

// UserService defines the interface for user operations
type UserService interface {
	// CreateUser registers a user. The password is stored as given.
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// FindByLogin retrieves a user by username or email
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new instance of the user service
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// CreateUser registers a user
func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := validation.ValidateCreateUserRequest(req); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.PasswordHash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.InfoWithContext(ctx, "registered user %d (%s)", user.ID, user.Username)
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByLogin retrieves a user by username or email
func (s *userService) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	return s.repo.FindByUsernameOrEmail(ctx, identifier)
}
