package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/controllers"
)

func MessageRoutes(app *fiber.App, ctrl *controllers.MessageController, protect fiber.Handler) {
	message := app.Group("/api/v1/messages", protect)

	message.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	message.Get("/ws/:userId", websocket.New(ctrl.Live))

	message.Post("/:userId", ctrl.Send)
	message.Get("/:userId", ctrl.History)
	message.Delete("/message/:id", ctrl.Delete)
	message.Put("/seen/:userId", ctrl.MarkSeen)
}
