package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/models"
)

// currentUser returns the authenticated user placed by ProtectRoute.
func currentUser(c *fiber.Ctx) models.User {
	return c.Locals("user").(models.User)
}

// paramID parses an ObjectID path parameter.
func paramID(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusBadRequest, "invalid id format")
	}
	return id, nil
}

// respondError maps the service error taxonomy onto HTTP statuses.
// Transient failures get 503 so clients know a retry is safe.
func respondError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(lib.MessageResponse(fiberErr.Message))
	}
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		status = fiber.StatusConflict
	case errors.Is(err, common.ErrInvalidTransition):
		status = fiber.StatusConflict
	case errors.Is(err, common.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, common.ErrEmptyInput), errors.Is(err, common.ErrSelfReference):
		status = fiber.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, common.ErrTransient):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(lib.MessageResponse(err.Error()))
}
