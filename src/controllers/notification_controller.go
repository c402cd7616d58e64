package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// List returns the authenticated user's feed, rendered against the
// live connection state.
func (ct *NotificationController) List(c *fiber.Ctx) error {
	user := currentUser(c)
	views, err := ct.notifications.ListRendered(c.Context(), user.Id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// MarkAllSeen acknowledges the whole feed.
func (ct *NotificationController) MarkAllSeen(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := ct.notifications.MarkAllSeen(c.Context(), user.Id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("notifications marked seen"))
}

// HasUnseen backs the navbar unread dot.
func (ct *NotificationController) HasUnseen(c *fiber.Ctx) error {
	user := currentUser(c)
	unseen, err := ct.notifications.HasUnseen(c.Context(), user.Id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"hasUnseen": unseen})
}
