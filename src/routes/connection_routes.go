package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/controllers"
)

// ConnectionRoutes sets up routes for sending, accepting and removing
// connection requests, plus listing friends and checking pair status.
func ConnectionRoutes(app *fiber.App, ctrl *controllers.ConnectionController, protect fiber.Handler) {
	connection := app.Group("/api/v1/connections", protect)

	connection.Post("/request/:userId", ctrl.Request)
	connection.Put("/accept/:id", ctrl.Accept)
	connection.Delete("/:id", ctrl.Remove)
	connection.Get("/requests", ctrl.Requests)
	connection.Get("/status/:userId", ctrl.Status)
	connection.Get("/", ctrl.Friends)
}
