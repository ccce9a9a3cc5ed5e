package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/api/internal/middleware/usercontext"
	"github.com/linkboard/api/internal/types"
	"github.com/linkboard/api/users"
	userErrors "github.com/linkboard/api/users/errors"
	"github.com/linkboard/api/users/handlers"
	"github.com/linkboard/api/users/models"
)

// MockUserService implements the UserService interface for testing
type MockUserService struct {
	createUserFunc  func(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	getUserFunc     func(ctx context.Context, id int64) (*models.User, error)
	findByLoginFunc func(ctx context.Context, identifier string) (*models.User, error)
}

func (m *MockUserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, req)
	}
	return &models.User{ID: 1, Username: req.Username, Email: req.Email, Password: req.PasswordHash}, nil
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return &models.User{ID: id, Username: "user", Password: "secret-hash"}, nil
}

func (m *MockUserService) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	if m.findByLoginFunc != nil {
		return m.findByLoginFunc(ctx, identifier)
	}
	return nil, userErrors.ErrUserNotFound
}

func newTestApp(svc *MockUserService) *fiber.App {
	app := fiber.New()
	app.Use(usercontext.New())
	users.RegisterRoutes(app, &users.UsersHandlers{UserHandler: handlers.NewUserHandler(svc)})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, uid string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(types.HeaderContentType, "application/json")
	if uid != "" {
		req.Header.Set(types.HeaderUID, uid)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestUserHandler_Me(t *testing.T) {
	app := newTestApp(&MockUserService{})

	status, body := doJSON(t, app, "GET", "/users/me", "12", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(12), body["id"])
	assert.NotContains(t, body, "password", "password must never be serialized")

	status, _ = doJSON(t, app, "GET", "/users/me", "", nil)
	assert.Equal(t, 401, status)
}

func TestUserHandler_GetUser(t *testing.T) {
	svc := &MockUserService{getUserFunc: func(ctx context.Context, id int64) (*models.User, error) {
		if id == 5 {
			return &models.User{ID: 5, Username: "ivan"}, nil
		}
		return nil, userErrors.ErrUserNotFound
	}}
	app := newTestApp(svc)

	status, body := doJSON(t, app, "GET", "/users/5", "", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "ivan", body["username"])

	status, body = doJSON(t, app, "GET", "/users/6", "", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, userErrors.CodeUserNotFound, body["code"])

	status, body = doJSON(t, app, "GET", "/users/abc", "", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, userErrors.CodeInvalidID, body["code"])
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		status, body := doJSON(t, newTestApp(&MockUserService{}), "POST", "/users", "",
			map[string]string{"username": "judy", "email": "judy@example.com", "passwordHash": "h4sh"})
		assert.Equal(t, 201, status)
		assert.Equal(t, "judy", body["username"])
		assert.NotContains(t, body, "password")
	})

	t.Run("validation errors list fields", func(t *testing.T) {
		svc := &MockUserService{createUserFunc: func(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
			return nil, &userErrors.ValidationError{Fields: []userErrors.FieldError{{Field: "username", Message: "cannot include an @"}}}
		}}

		status, body := doJSON(t, newTestApp(svc), "POST", "/users", "",
			map[string]string{"username": "a@b", "email": "judy@example.com", "passwordHash": "h4sh"})
		assert.Equal(t, 400, status)
		assert.Equal(t, userErrors.CodeValidationFailed, body["code"])
		details := body["details"].([]interface{})
		require.Len(t, details, 1)
		assert.Equal(t, "username", details[0].(map[string]interface{})["field"])
	})

	t.Run("taken username conflicts", func(t *testing.T) {
		svc := &MockUserService{createUserFunc: func(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
			return nil, userErrors.ErrUsernameTaken
		}}

		status, body := doJSON(t, newTestApp(svc), "POST", "/users", "",
			map[string]string{"username": "judy", "email": "judy@example.com", "passwordHash": "h4sh"})
		assert.Equal(t, 409, status)
		assert.Equal(t, userErrors.CodeUsernameTaken, body["code"])
	})
}
