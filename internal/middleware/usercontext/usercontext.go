package usercontext

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/linkboard/api/internal/types"
)

// Config defines the config for the user context middleware.
type Config struct {
	// Header carrying the gateway-authenticated user id. Defaults to types.HeaderUID.
	Header string
	// Required rejects requests without a valid identity.
	Required bool
}

// New stores the caller identity from the trusted gateway header in Locals under
// types.UserCtxName. Anonymous requests pass through unless Required is set.
func New(cfg ...Config) fiber.Handler {
	conf := Config{}
	if len(cfg) > 0 {
		conf = cfg[0]
	}
	if conf.Header == "" {
		conf.Header = types.HeaderUID
	}

	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(conf.Header))
		if raw == "" {
			if conf.Required {
				return unauthorized(c, "Missing user identity")
			}
			return c.Next()
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return unauthorized(c, "Invalid user identity")
		}

		c.Locals(types.UserCtxName, types.UserContext{UserID: userID})
		return c.Next()
	}
}

// Require rejects requests that reached it without a user context
func Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := FromCtx(c); !ok {
			return unauthorized(c, "Missing user identity")
		}
		return c.Next()
	}
}

// FromCtx returns the caller identity, if any
func FromCtx(c *fiber.Ctx) (types.UserContext, bool) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	return user, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
