package usercontext

import (
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/api/internal/types"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/", func(c *fiber.Ctx) error {
		user, ok := FromCtx(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(strconv.FormatInt(user.UserID, 10))
	})
	app.Get("/private", Require(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, uid string) (int, string) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if uid != "" {
		req.Header.Set(types.HeaderUID, uid)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestNew(t *testing.T) {
	app := newApp(Config{})

	status, body := do(t, app, "/", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "anonymous", body)

	status, body = do(t, app, "/", "17")
	assert.Equal(t, 200, status)
	assert.Equal(t, "17", body)

	status, _ = do(t, app, "/", "not-a-number")
	assert.Equal(t, 401, status)

	status, _ = do(t, app, "/", "-3")
	assert.Equal(t, 401, status)
}

func TestRequire(t *testing.T) {
	app := newApp(Config{})

	status, _ := do(t, app, "/private", "")
	assert.Equal(t, 401, status)

	status, body := do(t, app, "/private", "5")
	assert.Equal(t, 200, status)
	assert.Equal(t, "ok", body)
}

func TestNew_Required(t *testing.T) {
	app := newApp(Config{Required: true})

	status, _ := do(t, app, "/", "")
	assert.Equal(t, 401, status)
}
