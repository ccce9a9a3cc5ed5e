// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package votes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linkboard/api/internal/middleware/usercontext"
	"github.com/linkboard/api/votes/handlers"
)

// VotesHandlers holds all the handlers this router needs
type VotesHandlers struct {
	VoteHandler *handlers.VoteHandler
}

// RegisterRoutes is the single entry point for setting up votes routes
func RegisterRoutes(app *fiber.App, handlers *VotesHandlers) {
	group := app.Group("/votes", usercontext.Require())

	// Vote endpoint: POST /votes
	group.Post("/", handlers.VoteHandler.Vote)
}
