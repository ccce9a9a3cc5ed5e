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
	"github.com/linkboard/api/users/errors"
	"github.com/linkboard/api/users/models"
	"github.com/linkboard/api/users/services"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler with injected dependencies
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a user from gateway-hashed credentials
// Endpoint: POST /users
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleServiceError(c, &errors.ValidationError{
			Fields: []errors.FieldError{{Field: "body", Message: "invalid request body"}},
		})
	}

	user, err := h.userService.CreateUser(c.UserContext(), &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(user)
}

// Me returns the caller's account
// Endpoint: GET /users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	found, err := h.userService.GetUser(c.UserContext(), user.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(found)
}

// GetUser returns a user by ID
// Endpoint: GET /users/:userId
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return errors.HandleIDError(c, "userId")
	}

	found, err := h.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(found)
}
