// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/linkboard/api/internal/types"
	"github.com/linkboard/api/votes/errors"
	"github.com/linkboard/api/votes/models"
	"github.com/linkboard/api/votes/services"
)

// VoteHandler handles all vote-related HTTP requests
type VoteHandler struct {
	voteService services.VoteService
}

// NewVoteHandler creates a new VoteHandler with injected dependencies
func NewVoteHandler(voteService services.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// Vote casts the caller's vote on a post
// Endpoint: POST /votes
// Body: {"postId": 1, "value": -1}
func (h *VoteHandler) Vote(c *fiber.Ctx) error {
	var req models.CastVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.PostID <= 0 {
		return errors.HandleValidationError(c, "postId is required")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	transition, err := h.voteService.CastVote(c.UserContext(), user.UserID, req.PostID, req.Value)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CastVoteResponse{
		Success:    true,
		Transition: transition,
	})
}
