package types

// HTTP Header Constants
const (
	HeaderUID         = "uid"
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
)

// UserCtxName is the Locals key holding the caller's UserContext
const UserCtxName = "user"

// UserContext is the caller identity forwarded by the gateway
type UserContext struct {
	UserID int64
}
