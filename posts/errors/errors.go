package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Post service specific errors
var (
	ErrPostNotFound       = errors.New("post not found")
	ErrCreatorNotFound    = errors.New("post creator not found")
	ErrForbidden          = errors.New("only the creator may modify this post")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrMissingUserContext = errors.New("missing user context")
	ErrValidationFailed   = errors.New("validation failed")
)

// Error codes
const (
	CodePostNotFound       = "POST_NOT_FOUND"
	CodeCreatorNotFound    = "CREATOR_NOT_FOUND"
	CodePostForbidden      = "POST_FORBIDDEN"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidID          = "INVALID_ID"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrPostNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodePostNotFound,
			Message: "Post not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrCreatorNotFound):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code:    CodeCreatorNotFound,
			Message: "Post creator does not exist",
			Details: err.Error(),
		})
	case errors.Is(err, ErrForbidden):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePostForbidden,
			Message: "Only the creator may modify this post",
			Details: err.Error(),
		})
	case errors.Is(err, ErrMissingUserContext):
		return HandleUserContextError(c, "Invalid user context")
	case errors.Is(err, ErrValidationFailed):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	})
}

// HandleUserContextError handles missing caller identity with 401 Unauthorized
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Code:    CodeMissingUserContext,
		Message: message,
		Details: message,
	})
}

// HandleInvalidRequestError handles invalid request errors with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}

// HandleIDError handles malformed numeric identifiers with 400 Bad Request
func HandleIDError(c *fiber.Ctx, fieldName string) error {
	message := fmt.Sprintf("Invalid %s format", fieldName)
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidID,
		Message: message,
		Details: message,
	})
}
