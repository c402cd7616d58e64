package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/services"
)

type ConnectionController struct {
	connections *services.ConnectionService
}

func NewConnectionController(connections *services.ConnectionService) *ConnectionController {
	return &ConnectionController{connections: connections}
}

// Request sends a connection request to another user.
func (ct *ConnectionController) Request(c *fiber.Ctx) error {
	user := currentUser(c)
	target, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	conn, err := ct.connections.Request(c.Context(), user.Id, target)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conn)
}

// Accept accepts a pending request addressed to the authenticated user.
func (ct *ConnectionController) Accept(c *fiber.Ctx) error {
	user := currentUser(c)
	connId, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	conn, err := ct.connections.Accept(c.Context(), connId, user.Id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(conn)
}

// Remove defuses a connection (or declines a pending request) without
// notifying the other party.
func (ct *ConnectionController) Remove(c *fiber.Ctx) error {
	user := currentUser(c)
	connId, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := ct.connections.Remove(c.Context(), connId, user.Id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("connection removed"))
}

// Friends lists the authenticated user's accepted connections.
func (ct *ConnectionController) Friends(c *fiber.Ctx) error {
	user := currentUser(c)
	friends, err := ct.connections.Friends(c.Context(), user.Id)
	if err != nil {
		return respondError(c, err)
	}
	results := make([]models.UserDto, 0, len(friends))
	for _, f := range friends {
		results = append(results, f.Public())
	}
	return c.JSON(results)
}

// Requests lists pending requests addressed to the authenticated user.
func (ct *ConnectionController) Requests(c *fiber.Ctx) error {
	user := currentUser(c)
	pending, err := ct.connections.PendingFor(c.Context(), user.Id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pending)
}

// Status reports the live relationship with another user and who
// initiated it, so the client can render "Pending" vs "Accept" from
// either side.
func (ct *ConnectionController) Status(c *fiber.Ctx) error {
	user := currentUser(c)
	other, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	status, requester, err := ct.connections.Status(c.Context(), user.Id, other)
	if err != nil {
		return respondError(c, err)
	}
	resp := fiber.Map{"status": status}
	if status != models.ConnectionStatusNone {
		resp["requester"] = requester
	}
	return c.JSON(resp)
}
