package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/controllers"
)

func UserRoutes(app *fiber.App, ctrl *controllers.UserController, protect fiber.Handler) {
	user := app.Group("/api/v1/users", protect)

	user.Get("/me", ctrl.Me)
	user.Get("/search", ctrl.Search)
	user.Get("/:handle", ctrl.GetByHandle)
}
