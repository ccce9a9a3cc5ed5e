package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"

	"github.com/linkboard/api/internal/pkg/log"
	"github.com/linkboard/api/internal/types"
)

const (
	// HeaderRequestID is the HTTP header name for request ID
	HeaderRequestID = types.HeaderRequestID
	// ContextKeyRequestID is the key used to store request ID in Fiber context
	ContextKeyRequestID = "request_id"
)

// New creates a middleware that generates or uses an existing X-Request-ID header.
// The id is also attached to the request's user context for the logger.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		c.Locals(ContextKeyRequestID, requestID)
		c.SetUserContext(log.WithRequestID(c.UserContext(), requestID))
		c.Set(HeaderRequestID, requestID)

		return c.Next()
	}
}

// GetRequestID retrieves the request ID from Fiber context
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}
