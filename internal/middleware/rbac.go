package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/autoseo-dev/autoseo-api/internal/permissions"
	"github.com/autoseo-dev/autoseo-api/internal/utils"
)

// RequirePermission ensures the authenticated user's role grants the
// permission. Services re-check permissions themselves; this keeps
// unauthorized requests from reaching them at all.
func RequirePermission(permission permissions.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := normalizeRoleValue(c.Locals("user_role"))
		if !permissions.HasPermission(role, permission) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequirePrivileged restricts a route to users the Authorizer accepts.
func RequirePrivileged(authorizer *permissions.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := uint(0)
		if v := c.Locals("user_id"); v != nil {
			if id, ok := v.(uint); ok {
				userID = id
			}
		}
		if authorizer == nil || !authorizer.IsPrivileged(c.UserContext(), userID) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
