package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Me returns the authenticated user's profile.
func (ct *UserController) Me(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(user.Public())
}

// GetByHandle resolves a profile by username; absence maps to 404 so
// the UI can show its not-found state instead of crashing.
func (ct *UserController) GetByHandle(c *fiber.Ctx) error {
	user, err := ct.users.ResolveByHandle(c.Context(), c.Params("handle"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Public())
}

// Search matches users by name or handle.
func (ct *UserController) Search(c *fiber.Ctx) error {
	users, err := ct.users.Search(c.Context(), c.Query("q"), 20)
	if err != nil {
		return respondError(c, err)
	}
	results := make([]models.UserDto, 0, len(users))
	for _, u := range users {
		results = append(results, u.Public())
	}
	return c.JSON(results)
}
