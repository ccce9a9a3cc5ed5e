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
	userErrors "github.com/linkboard/api/users/errors"
	"github.com/linkboard/api/users/models"
)

const userColumns = `id, username, email, password, created_at, updated_at`

type sqlRepository struct {
	client *sqldb.Client
}

// NewSQLRepository creates a new SQL-backed user repository
func NewSQLRepository(client *sqldb.Client) UserRepository {
	return &sqlRepository{client: client}
}

// Create inserts a new user
func (r *sqlRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.client.Rebind(`
		INSERT INTO users (username, email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.client.Executor(ctx).QueryRowxContext(ctx, query,
		user.Username, user.Email, user.Password, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		if sqldb.IsUniqueViolation(err) {
			return r.uniqueError(ctx, user, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// uniqueError works out which unique column rejected the insert. PostgreSQL
// names the constraint; SQLite only names the column in the message.
func (r *sqlRepository) uniqueError(ctx context.Context, user *models.User, err error) error {
	hint := sqldb.ConstraintName(err)
	if hint == "" {
		hint = err.Error()
	}
	switch {
	case strings.Contains(hint, "email"):
		return fmt.Errorf("email %q: %w", user.Email, userErrors.ErrEmailTaken)
	case strings.Contains(hint, "username"):
		return fmt.Errorf("username %q: %w", user.Username, userErrors.ErrUsernameTaken)
	}

	if existing, findErr := r.FindByUsernameOrEmail(ctx, user.Email); findErr == nil && existing != nil {
		return fmt.Errorf("email %q: %w", user.Email, userErrors.ErrEmailTaken)
	}
	return fmt.Errorf("username %q: %w", user.Username, userErrors.ErrUsernameTaken)
}

// FindByID retrieves a user by ID
func (r *sqlRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := r.client.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	var user models.User
	if err := sqlx.GetContext(ctx, r.client.Executor(ctx), &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, userErrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByUsernameOrEmail retrieves a user by login identifier
func (r *sqlRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	column := "username"
	if strings.Contains(identifier, "@") {
		column = "email"
	}
	query := r.client.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`)

	var user models.User
	if err := sqlx.GetContext(ctx, r.client.Executor(ctx), &user, query, identifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %q: %w", column, identifier, userErrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByIDs bulk retrieves users in one query
func (r *sqlRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	result := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build bulk user query: %w", err)
	}

	var users []*models.User
	if err := sqlx.SelectContext(ctx, r.client.Executor(ctx), &users, r.client.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}

	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}
