package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/controllers"
)

func PostRoutes(app *fiber.App, ctrl *controllers.PostController, protect fiber.Handler) {
	post := app.Group("/api/v1/posts", protect)

	post.Post("/", ctrl.Create)
	post.Get("/", ctrl.Feed)
	post.Get("/user/:userId", ctrl.ByUser)
	post.Post("/image", ctrl.UploadImage)
	post.Post("/comment/:id", ctrl.Comment)
	post.Put("/like/:id", ctrl.Like)
	post.Delete("/:id", ctrl.Delete)
}
