// Package operations serves the operation registry screen.
package operations

import (
	"errors"
	"strings"

	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
)

type OperationRequest struct {
	Name string `json:"name"`
}

func respondUpstream(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, upstream.ErrUnauthorized) {
		return session.LoginRedirect(c, "Session expired")
	}
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return fiber.NewError(se.Status, se.Message)
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

// ListHandler lists the branch's production steps.
func ListHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ops, err := api.Operations(c.Context(), session.Token(c), session.BranchID(c))
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"operations": ops})
	}
}

// CreateHandler registers a production step.
func CreateHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req OperationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Operation name is required")
		}
		if err := api.CreateOperation(c.Context(), session.Token(c), name); err != nil {
			return respondUpstream(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Operation added"})
	}
}

// UpdateHandler renames a production step.
func UpdateHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid operation id")
		}
		var req OperationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Operation name is required")
		}
		if err := api.UpdateOperation(c.Context(), session.Token(c), uint(id), name); err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"message": "Operation updated"})
	}
}

// DeleteHandler removes a production step.
func DeleteHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid operation id")
		}
		if err := api.DeleteOperation(c.Context(), session.Token(c), uint(id)); err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"message": "Operation removed"})
	}
}
