package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/store"
)

// ProtectRoute checks for a valid JWT, loads the acting user and
// attaches it to the request context. Websocket clients cannot set
// headers, so a token query parameter is accepted as well.
func ProtectRoute(st store.Store, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string
		authHeader := c.Get("Authorization")
		switch {
		case strings.HasPrefix(authHeader, "Bearer "):
			token = strings.TrimPrefix(authHeader, "Bearer ")
		case c.Query("token") != "":
			token = c.Query("token")
		default:
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("unauthorized - no token provided"))
		}

		userIdHex, err := lib.VerifyJWT(token, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("unauthorized - invalid token"))
		}
		userId, err := primitive.ObjectIDFromHex(userIdHex)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("unauthorized - invalid user id"))
		}

		user, err := st.Users().FindByID(c.Context(), userId)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("unauthorized - user not found"))
		}
		user.Password = ""

		c.Locals("user", *user)
		return c.Next()
	}
}
