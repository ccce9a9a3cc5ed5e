// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loaders

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	userModels "github.com/linkboard/api/users/models"
	userRepository "github.com/linkboard/api/users/repository"
	voteModels "github.com/linkboard/api/votes/models"
	voteRepository "github.com/linkboard/api/votes/repository"
)

// LocalsKey is the fiber Locals key holding the request's Loaders
const LocalsKey = "loaders"

type contextKey struct{}

// Loaders holds the per-request batchers used to render posts
type Loaders struct {
	Users *Batcher[int64, *userModels.User]
	Votes *Batcher[voteModels.Key, *voteModels.Vote]
}

// New builds a fresh set of batchers. Build one per request.
func New(users userRepository.UserRepository, votes voteRepository.VoteRepository) *Loaders {
	return &Loaders{
		Users: NewBatcher[int64, *userModels.User](users.FindByIDs),
		Votes: NewBatcher[voteModels.Key, *voteModels.Vote](votes.FindMany),
	}
}

// VoteStatus returns the direction userID voted on postID, or nil when there is no vote
func (l *Loaders) VoteStatus(ctx context.Context, userID, postID int64) (*int, error) {
	vote, ok, err := l.Votes.Load(voteModels.Key{UserID: userID, PostID: postID}).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vote status: %w", err)
	}
	if !ok || vote == nil {
		return nil, nil
	}
	value := vote.Value.Int()
	return &value, nil
}

// User returns the user with id, or nil when there is none
func (l *Loaders) User(ctx context.Context, id int64) (*userModels.User, error) {
	user, ok, err := l.Users.Load(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}

// WithLoaders returns a context carrying l
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the Loaders carried by ctx
func FromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(contextKey{}).(*Loaders)
	return l, ok && l != nil
}

// Middleware attaches a fresh Loaders to every request, both in Locals and in
// the request's user context
func Middleware(users userRepository.UserRepository, votes voteRepository.VoteRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := New(users, votes)
		c.Locals(LocalsKey, l)
		c.SetUserContext(WithLoaders(c.UserContext(), l))
		return c.Next()
	}
}
