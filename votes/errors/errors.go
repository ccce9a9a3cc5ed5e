// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	postErrors "github.com/linkboard/api/posts/errors"
)

// Vote service specific errors
var (
	// ErrDuplicateVote means a ledger row already exists for (user, post).
	// Seen when a concurrent insert won the race; the caller should resubmit
	// the vote rather than retry the raw insert.
	ErrDuplicateVote = errors.New("vote already recorded for user and post")

	// ErrVoteNotFound means no ledger row exists for (user, post)
	ErrVoteNotFound = errors.New("vote not found")

	// ErrPostNotFound is shared with the posts domain so both layers agree on it
	ErrPostNotFound = postErrors.ErrPostNotFound

	// ErrIntegrityViolation marks a broken ledger/score invariant. Not recoverable.
	ErrIntegrityViolation = errors.New("vote ledger integrity violation")

	ErrInvalidVoteData    = errors.New("invalid vote data")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrMissingUserContext = errors.New("missing user context")
)

// Error codes
const (
	CodeDuplicateVote      = "DUPLICATE_VOTE"
	CodeVoteConflict       = "VOTE_CONFLICT"
	CodePostNotFound       = "POST_NOT_FOUND"
	CodeIntegrityError     = "INTEGRITY_ERROR"
	CodeInvalidVoteData    = "INVALID_VOTE_DATA"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeVoteFailed         = "VOTE_FAILED"
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
	case errors.Is(err, ErrIntegrityViolation):
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeIntegrityError,
			Message: "Vote could not be recorded",
			Details: err.Error(),
		})
	case errors.Is(err, ErrPostNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodePostNotFound,
			Message: "Post not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrDuplicateVote):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeDuplicateVote,
			Message: "A concurrent vote was recorded first; resubmit the vote",
			Details: err.Error(),
		})
	case errors.Is(err, ErrVoteNotFound):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeVoteConflict,
			Message: "The vote changed concurrently; resubmit the vote",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidVoteData):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidVoteData,
			Message: "Invalid vote data",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeVoteFailed,
			Message: "Vote could not be recorded",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidVoteData,
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
		Message: fmt.Sprintf("Invalid request: %s", message),
		Details: message,
	})
}
