package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/services"
)

type ChatController struct {
	chats *services.ChatService
}

func NewChatController(chats *services.ChatService) *ChatController {
	return &ChatController{chats: chats}
}

// List returns the chat list: one entry per counterpart with the
// latest message, most recent activity first.
func (ct *ChatController) List(c *fiber.Ctx) error {
	user := currentUser(c)
	views, err := ct.chats.Summarize(c.Context(), user.Id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}
