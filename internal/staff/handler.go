// Package staff serves the roster screen.
package staff

import (
	"errors"
	"strings"

	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
)

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

// ListHandler lists the branch roster, optionally filtered by operation.
func ListHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var (
			staff []upstream.Staff
			err   error
		)
		if operation := strings.TrimSpace(c.Query("operation")); operation != "" {
			staff, err = api.StaffByOperation(c.Context(), token, branchID, operation)
		} else {
			staff, err = api.StaffList(c.Context(), token, branchID)
		}
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"staff": staff})
	}
}

// DeleteHandler removes one roster entry.
func DeleteHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}
		if err := api.DeleteStaff(c.Context(), session.Token(c), uint(id)); err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"message": "Staff removed"})
	}
}
