// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/linkboard/api/internal/types"
	"github.com/linkboard/api/posts/errors"
	"github.com/linkboard/api/posts/models"
	"github.com/linkboard/api/posts/services"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler creates a new PostHandler with injected dependencies
func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// viewer returns the caller identity, or nil for anonymous requests
func viewer(c *fiber.Ctx) *types.UserContext {
	if user, ok := c.Locals(types.UserCtxName).(types.UserContext); ok {
		return &user
	}
	return nil
}

func parsePostID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("postId"), 10, 64)
	return id, err == nil && id > 0
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	user := viewer(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	post, err := h.postService.CreatePost(c.UserContext(), &req, user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(models.CreatePostResponse{ID: post.ID})
}

// GetPost handles GET /posts/:postId
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, ok := parsePostID(c)
	if !ok {
		return errors.HandleIDError(c, "postId")
	}

	view, err := h.postService.GetPost(c.UserContext(), postID, viewer(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(view)
}

// ListPosts handles GET /posts?limit=&offset=
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	page, err := h.postService.ListPosts(c.UserContext(), limit, offset, viewer(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(page)
}

// DeletePost handles DELETE /posts/:postId
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	user := viewer(c)
	if user == nil {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	postID, ok := parsePostID(c)
	if !ok {
		return errors.HandleIDError(c, "postId")
	}

	if err := h.postService.DeletePost(c.UserContext(), postID, user); err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
