package controllers

import (
	"context"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/services"
)

type MessageController struct {
	messages *services.MessageService
	log      *slog.Logger
}

func NewMessageController(messages *services.MessageService, log *slog.Logger) *MessageController {
	return &MessageController{messages: messages, log: log}
}

// Send appends a message to the conversation with the given user.
func (ct *MessageController) Send(c *fiber.Ctx) error {
	user := currentUser(c)
	receiver, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("invalid request body"))
	}
	msg, err := ct.messages.Send(c.Context(), user.Id, receiver, body.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// History returns the initial conversation window, oldest first.
func (ct *MessageController) History(c *fiber.Ctx) error {
	user := currentUser(c)
	other, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	msgs, err := ct.messages.History(c.Context(), user.Id, other)
	if err != nil {
		return respondError(c, err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return c.JSON(msgs)
}

// Delete removes one of the authenticated user's own messages.
func (ct *MessageController) Delete(c *fiber.Ctx) error {
	user := currentUser(c)
	msgId, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := ct.messages.Delete(c.Context(), msgId, user.Id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("message deleted"))
}

// MarkSeen acknowledges every unseen incoming message in the
// conversation with the given user.
func (ct *MessageController) MarkSeen(c *fiber.Ctx) error {
	user := currentUser(c)
	other, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := ct.messages.MarkSeen(c.Context(), user.Id, other); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("conversation marked seen"))
}

// Live is the websocket endpoint for a conversation: it sends the
// initial history frame, then every send/delete event in order until
// the client disconnects. Detaching never affects other subscribers.
func (ct *MessageController) Live(conn *websocket.Conn) {
	defer conn.Close()
	user := conn.Locals("user").(models.User)

	otherId, err := primitive.ObjectIDFromHex(conn.Params("userId"))
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"type": "error", "message": "invalid user id"})
		return
	}

	history, sub, err := ct.messages.Subscribe(context.Background(), user.Id, otherId)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"type": "error", "message": "failed to load conversation"})
		return
	}
	defer sub.Close()

	if history == nil {
		history = []models.Message{}
	}
	if err := conn.WriteJSON(fiber.Map{"type": "history", "messages": history}); err != nil {
		return
	}

	// Reader goroutine: its only job is noticing the client went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				// Hub detached us (overflow); the client reconnects and
				// reloads the window.
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
