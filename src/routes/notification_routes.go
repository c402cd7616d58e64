package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/controllers"
)

func NotificationRoutes(app *fiber.App, ctrl *controllers.NotificationController, protect fiber.Handler) {
	notification := app.Group("/api/v1/notifications", protect)

	notification.Get("/", ctrl.List)
	notification.Get("/unseen", ctrl.HasUnseen)
	notification.Put("/seen", ctrl.MarkAllSeen)
}
