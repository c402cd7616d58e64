package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/controllers"
)

func ChatRoutes(app *fiber.App, ctrl *controllers.ChatController, protect fiber.Handler) {
	chat := app.Group("/api/v1/chats", protect)

	chat.Get("/", ctrl.List)
}
