// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package posts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linkboard/api/internal/middleware/usercontext"
	"github.com/linkboard/api/posts/handlers"
)

// PostsHandlers holds all the handlers this router needs
type PostsHandlers struct {
	PostHandler *handlers.PostHandler
}

// RegisterRoutes is the single entry point for setting up posts routes
func RegisterRoutes(app *fiber.App, handlers *PostsHandlers) {
	group := app.Group("/posts")

	// Readable anonymously; vote status is filled in when a caller is known
	group.Get("/", handlers.PostHandler.ListPosts)
	group.Get("/:postId", handlers.PostHandler.GetPost)

	group.Post("/", usercontext.Require(), handlers.PostHandler.CreatePost)
	group.Delete("/:postId", usercontext.Require(), handlers.PostHandler.DeletePost)
}
