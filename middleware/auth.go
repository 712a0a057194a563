// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"sports-prediction-system/services"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware resolves the caller's identity onto the request
// context. The gateway normally injects X-User-ID and X-User-Roles; when a
// request carries only an X-Session-Token, the auth service resolves it.
// Handlers read c.Locals("user_id") as the external user id.
func UserContextMiddleware(authClient *services.AuthServiceClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if userID == "" {
			sessionToken := c.Get("X-Session-Token")
			if sessionToken != "" && authClient != nil {
				resolved, err := authClient.ValidateToken(sessionToken)
				if err != nil {
					log.Printf("❌ [USER_CTX] session token rejected on %s: %v", c.Path(), err)
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "invalid session token",
					})
				}
				userID = resolved.UserID
				rolesStr = strings.Join(resolved.Roles, ",")
			}
		}

		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing identity — request must come through gateway with auth context",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)
		return c.Next()
	}
}

// RequireAdmin gates admin routes on the gateway-provided role list.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == "admin" {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin role required",
		})
	}
}
