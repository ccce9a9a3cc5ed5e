package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/api/internal/middleware/usercontext"
	"github.com/linkboard/api/internal/types"
	"github.com/linkboard/api/posts"
	postErrors "github.com/linkboard/api/posts/errors"
	"github.com/linkboard/api/posts/handlers"
	"github.com/linkboard/api/posts/models"
	userModels "github.com/linkboard/api/users/models"
)

// MockPostService implements the PostService interface for testing
type MockPostService struct {
	createPostFunc func(ctx context.Context, req *models.CreatePostRequest, user *types.UserContext) (*models.Post, error)
	getPostFunc    func(ctx context.Context, postID int64, viewer *types.UserContext) (*models.PostView, error)
	listPostsFunc  func(ctx context.Context, limit, offset int, viewer *types.UserContext) (*models.PostsListResponse, error)
	deletePostFunc func(ctx context.Context, postID int64, user *types.UserContext) error
}

func (m *MockPostService) CreatePost(ctx context.Context, req *models.CreatePostRequest, user *types.UserContext) (*models.Post, error) {
	if m.createPostFunc != nil {
		return m.createPostFunc(ctx, req, user)
	}
	return &models.Post{ID: 1, Title: req.Title, CreatorID: user.UserID}, nil
}

func (m *MockPostService) GetPost(ctx context.Context, postID int64, viewer *types.UserContext) (*models.PostView, error) {
	if m.getPostFunc != nil {
		return m.getPostFunc(ctx, postID, viewer)
	}
	return nil, postErrors.ErrPostNotFound
}

func (m *MockPostService) ListPosts(ctx context.Context, limit, offset int, viewer *types.UserContext) (*models.PostsListResponse, error) {
	if m.listPostsFunc != nil {
		return m.listPostsFunc(ctx, limit, offset, viewer)
	}
	return &models.PostsListResponse{Posts: []*models.PostView{}, Limit: limit, Offset: offset}, nil
}

func (m *MockPostService) DeletePost(ctx context.Context, postID int64, user *types.UserContext) error {
	if m.deletePostFunc != nil {
		return m.deletePostFunc(ctx, postID, user)
	}
	return nil
}

func newTestApp(svc *MockPostService) *fiber.App {
	app := fiber.New()
	app.Use(usercontext.New())
	posts.RegisterRoutes(app, &posts.PostsHandlers{PostHandler: handlers.NewPostHandler(svc)})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, uid string, body interface{}) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(types.HeaderContentType, "application/json")
	if uid != "" {
		req.Header.Set(types.HeaderUID, uid)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestPostHandler_ListPosts(t *testing.T) {
	var gotLimit, gotOffset int
	var gotViewer *types.UserContext
	up := 1
	svc := &MockPostService{listPostsFunc: func(ctx context.Context, limit, offset int, viewer *types.UserContext) (*models.PostsListResponse, error) {
		gotLimit, gotOffset, gotViewer = limit, offset, viewer
		return &models.PostsListResponse{
			Posts: []*models.PostView{{
				Post:       models.Post{ID: 3, Title: "t", Score: 4, CreatorID: 2},
				Creator:    &userModels.User{ID: 2, Username: "kim", Password: "hash"},
				VoteStatus: &up,
			}},
			Limit:  limit,
			Offset: offset,
		}, nil
	}}
	app := newTestApp(svc)

	status, body := do(t, app, "GET", "/posts?limit=5&offset=10", "8", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)
	require.NotNil(t, gotViewer)
	assert.Equal(t, int64(8), gotViewer.UserID)

	var page struct {
		Posts []map[string]interface{} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Posts, 1)
	assert.Equal(t, float64(1), page.Posts[0]["voteStatus"])
	assert.Equal(t, float64(4), page.Posts[0]["score"])
	creator := page.Posts[0]["creator"].(map[string]interface{})
	assert.Equal(t, "kim", creator["username"])
	assert.NotContains(t, creator, "password")

	_, _ = do(t, app, "GET", "/posts", "", nil)
	assert.Nil(t, gotViewer, "anonymous listing has no viewer")
}

func TestPostHandler_GetPost(t *testing.T) {
	svc := &MockPostService{getPostFunc: func(ctx context.Context, postID int64, viewer *types.UserContext) (*models.PostView, error) {
		if postID == 3 {
			return &models.PostView{Post: models.Post{ID: 3, Title: "found"}}, nil
		}
		return nil, fmt.Errorf("post %d: %w", postID, postErrors.ErrPostNotFound)
	}}
	app := newTestApp(svc)

	status, body := do(t, app, "GET", "/posts/3", "", nil)
	assert.Equal(t, 200, status)
	assert.Contains(t, string(body), `"voteStatus":null`)

	status, body = do(t, app, "GET", "/posts/4", "", nil)
	assert.Equal(t, 404, status)
	assert.Contains(t, string(body), postErrors.CodePostNotFound)

	status, body = do(t, app, "GET", "/posts/xyz", "", nil)
	assert.Equal(t, 400, status)
	assert.Contains(t, string(body), postErrors.CodeInvalidID)
}

func TestPostHandler_CreatePost(t *testing.T) {
	app := newTestApp(&MockPostService{})

	status, body := do(t, app, "POST", "/posts", "2", map[string]string{"title": "new"})
	assert.Equal(t, 201, status)
	assert.JSONEq(t, `{"id":1}`, string(body))

	status, _ = do(t, app, "POST", "/posts", "", map[string]string{"title": "new"})
	assert.Equal(t, 401, status)

	failing := newTestApp(&MockPostService{createPostFunc: func(ctx context.Context, req *models.CreatePostRequest, user *types.UserContext) (*models.Post, error) {
		return nil, fmt.Errorf("%w: title is required", postErrors.ErrValidationFailed)
	}})
	status, body = do(t, failing, "POST", "/posts", "2", map[string]string{"title": ""})
	assert.Equal(t, 400, status)
	assert.Contains(t, string(body), postErrors.CodeValidationFailed)
}

func TestPostHandler_DeletePost(t *testing.T) {
	svc := &MockPostService{deletePostFunc: func(ctx context.Context, postID int64, user *types.UserContext) error {
		if user.UserID != 2 {
			return postErrors.ErrForbidden
		}
		return nil
	}}
	app := newTestApp(svc)

	status, _ := do(t, app, "DELETE", "/posts/3", "2", nil)
	assert.Equal(t, 204, status)

	status, body := do(t, app, "DELETE", "/posts/3", "5", nil)
	assert.Equal(t, 403, status)
	assert.Contains(t, string(body), postErrors.CodePostForbidden)

	status, _ = do(t, app, "DELETE", "/posts/3", "", nil)
	assert.Equal(t, 401, status)
}
