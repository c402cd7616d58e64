package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/config"
	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/services"
)

type AuthController struct {
	users *services.UserService
	cfg   *config.Config
}

func NewAuthController(users *services.UserService, cfg *config.Config) *AuthController {
	return &AuthController{users: users, cfg: cfg}
}

// Signup registers a new user and returns a token.
func (ct *AuthController) Signup(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("invalid request body"))
	}

	user, err := ct.users.Signup(c.Context(), body.Name, body.Username, body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := lib.GenerateJWT(user.Id.Hex(), []byte(ct.cfg.JWTSecret), ct.cfg.TokenTTL)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user.Public(),
		"token": token,
	})
}

// Login authenticates by username and password.
func (ct *AuthController) Login(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("invalid request body"))
	}
	if body.Username == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("username and password are required"))
	}

	user, err := ct.users.Login(c.Context(), body.Username, body.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := lib.GenerateJWT(user.Id.Hex(), []byte(ct.cfg.JWTSecret), ct.cfg.TokenTTL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  user.Public(),
		"token": token,
	})
}
