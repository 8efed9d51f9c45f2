package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxBranchIDKey = "branch_id"
	CtxTokenKey    = "branch_token"
)

// Middleware parses the Authorization header, resolves the branch scope and
// stores both in request locals. A missing or undecodable token is the
// "no branch" state, which every screen renders as "go log in again" — the
// upstream API remains the actual gatekeeper.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return LoginRedirect(c, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return LoginRedirect(c, "Authorization must be 'Bearer <token>'")
		}

		token := parts[1]
		branchID, ok := DecodeBranch(token)
		if !ok {
			return LoginRedirect(c, "Session token has no branch")
		}

		c.Locals(CtxBranchIDKey, branchID)
		c.Locals(CtxTokenKey, token)
		return c.Next()
	}
}

// LoginRedirect answers 401 with the redirect hint the dashboard shell uses
// to bounce the user to the login screen.
func LoginRedirect(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":    msg,
		"redirect": "/login",
	})
}

// BranchID returns the branch scope stored by Middleware.
func BranchID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxBranchIDKey).(string)
	return id
}

// Token returns the raw bearer token stored by Middleware.
func Token(c *fiber.Ctx) string {
	t, _ := c.Locals(CtxTokenKey).(string)
	return t
}
