// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/linkboard/api/internal/pkg/log"
	"github.com/linkboard/api/internal/types"
	"github.com/linkboard/api/loaders"
	postErrors "github.com/linkboard/api/posts/errors"
	"github.com/linkboard/api/posts/models"
	"github.com/linkboard/api/posts/repository"
	"github.com/linkboard/api/posts/validation"
	userModels "github.com/linkboard/api/users/models"
	userRepository "github.com/linkboard/api/users/repository"
	voteModels "github.com/linkboard/api/votes/models"
	voteRepository "github.com/linkboard/api/votes/repository"
)

// PostService defines the interface for post operations
type PostService interface {
	// CreatePost stores a new post owned by user
	CreatePost(ctx context.Context, req *models.CreatePostRequest, user *types.UserContext) (*models.Post, error)

	// GetPost returns one post rendered for viewer, which may be nil
	GetPost(ctx context.Context, postID int64, viewer *types.UserContext) (*models.PostView, error)

	// ListPosts returns a page of posts rendered for viewer, which may be nil
	ListPosts(ctx context.Context, limit, offset int, viewer *types.UserContext) (*models.PostsListResponse, error)

	// DeletePost removes a post owned by user together with its votes
	DeletePost(ctx context.Context, postID int64, user *types.UserContext) error
}

// Paging bounds for ListPosts
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

type postService struct {
	repo     repository.PostRepository
	userRepo userRepository.UserRepository
	voteRepo voteRepository.VoteRepository
	paging   Paging
}

// NewPostService creates a new instance of the post service
func NewPostService(repo repository.PostRepository, userRepo userRepository.UserRepository, voteRepo voteRepository.VoteRepository, paging Paging) PostService {
	if paging.DefaultLimit <= 0 {
		paging.DefaultLimit = 20
	}
	if paging.MaxLimit < paging.DefaultLimit {
		paging.MaxLimit = paging.DefaultLimit
	}
	return &postService{
		repo:     repo,
		userRepo: userRepo,
		voteRepo: voteRepo,
		paging:   paging,
	}
}

// CreatePost stores a new post
func (s *postService) CreatePost(ctx context.Context, req *models.CreatePostRequest, user *types.UserContext) (*models.Post, error) {
	if user == nil {
		return nil, postErrors.ErrMissingUserContext
	}
	if err := validation.ValidateCreatePostRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", postErrors.ErrValidationFailed, err)
	}

	post := &models.Post{
		Title:     req.Title,
		Text:      req.Text,
		CreatorID: user.UserID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.InfoWithContext(ctx, "user %d created post %d", user.UserID, post.ID)
	return post, nil
}

// GetPost returns one post rendered for viewer
func (s *postService) GetPost(ctx context.Context, postID int64, viewer *types.UserContext) (*models.PostView, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	views, err := s.render(ctx, []*models.Post{post}, viewer)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListPosts returns a page of posts newest first
func (s *postService) ListPosts(ctx context.Context, limit, offset int, viewer *types.UserContext) (*models.PostsListResponse, error) {
	limit, offset = validation.ValidatePagination(limit, offset, s.paging.DefaultLimit, s.paging.MaxLimit)

	posts, err := s.repo.Find(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	views, err := s.render(ctx, posts, viewer)
	if err != nil {
		return nil, err
	}
	return &models.PostsListResponse{Posts: views, Limit: limit, Offset: offset}, nil
}

// DeletePost removes a post owned by user
func (s *postService) DeletePost(ctx context.Context, postID int64, user *types.UserContext) error {
	if user == nil {
		return postErrors.ErrMissingUserContext
	}

	return s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		post, err := s.repo.FindByID(txCtx, postID)
		if err != nil {
			return err
		}
		if post.CreatorID != user.UserID {
			return fmt.Errorf("user %d on post %d: %w", user.UserID, postID, postErrors.ErrForbidden)
		}
		if err := s.repo.Delete(txCtx, postID); err != nil {
			return err
		}

		log.InfoWithContext(ctx, "user %d deleted post %d", user.UserID, postID)
		return nil
	})
}

// render resolves creators and the viewer's vote status through the request's
// batchers. All keys are registered first, then both batches are fetched
// concurrently, so a page costs one user query and one vote query.
func (s *postService) render(ctx context.Context, posts []*models.Post, viewer *types.UserContext) ([]*models.PostView, error) {
	l, ok := loaders.FromContext(ctx)
	if !ok {
		l = loaders.New(s.userRepo, s.voteRepo)
	}

	creators := make([]*loaders.Thunk[int64, *userModels.User], len(posts))
	var votes []*loaders.Thunk[voteModels.Key, *voteModels.Vote]
	if viewer != nil {
		votes = make([]*loaders.Thunk[voteModels.Key, *voteModels.Vote], len(posts))
	}
	for i, p := range posts {
		creators[i] = l.Users.Load(p.CreatorID)
		if viewer != nil {
			votes[i] = l.Votes.Load(voteModels.Key{UserID: viewer.UserID, PostID: p.ID})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.Users.Flush(gctx) })
	if viewer != nil {
		g.Go(func() error { return l.Votes.Flush(gctx) })
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load post details: %w", err)
	}

	views := make([]*models.PostView, len(posts))
	for i, p := range posts {
		view := &models.PostView{Post: *p}

		creator, found, err := creators[i].Get(ctx)
		if err != nil {
			return nil, err
		}
		if found {
			view.Creator = creator
		}

		if viewer != nil {
			vote, voted, err := votes[i].Get(ctx)
			if err != nil {
				return nil, err
			}
			if voted {
				value := vote.Value.Int()
				view.VoteStatus = &value
			}
		}
		views[i] = view
	}
	return views, nil
}
