package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/controllers"
)

func AuthRoutes(app *fiber.App, ctrl *controllers.AuthController) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/signup", ctrl.Signup)
	auth.Post("/login", ctrl.Login)
}
