// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// User service specific errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidationFailed   = errors.New("validation failed")
	ErrMissingUserContext = errors.New("missing user context")
)

// Error codes
const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidID          = "INVALID_ID"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// FieldError names the input field a validation message belongs to
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the field errors of a rejected registration
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	return e.Fields[0].Field + ": " + e.Fields[0].Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

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

	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrUserNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeUserNotFound,
			Message: "User not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrUsernameTaken):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeUsernameTaken,
			Message: "Username already registered",
			Details: []FieldError{{Field: "username", Message: "username already registered"}},
		})
	case errors.Is(err, ErrEmailTaken):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeEmailTaken,
			Message: "Email already registered",
			Details: []FieldError{{Field: "email", Message: "email already registered"}},
		})
	case errors.As(err, &validationErr):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Validation failed",
			Details: validationErr.Fields,
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleUserContextError handles missing caller identity with 401 Unauthorized
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Code:    CodeMissingUserContext,
		Message: message,
		Details: message,
	})
}

// HandleIDError handles malformed numeric identifiers with 400 Bad Request
func HandleIDError(c *fiber.Ctx, fieldName string) error {
	message := "Invalid " + fieldName + " format"
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidID,
		Message: message,
		Details: message,
	})
}
