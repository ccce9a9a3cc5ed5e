// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package users

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linkboard/api/internal/middleware/usercontext"
	"github.com/linkboard/api/users/handlers"
)

// UsersHandlers holds all the handlers this router needs
type UsersHandlers struct {
	UserHandler *handlers.UserHandler
}

// RegisterRoutes is the single entry point for setting up users routes
func RegisterRoutes(app *fiber.App, handlers *UsersHandlers) {
	group := app.Group("/users")

	group.Post("/", handlers.UserHandler.Register)
	// Registered before /:userId so "me" is not parsed as an ID
	group.Get("/me", usercontext.Require(), handlers.UserHandler.Me)
	group.Get("/:userId", handlers.UserHandler.GetUser)
}
