package middleware

import (
	"catalog/pkg/httperror"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type contextKey string

const UserIDKey contextKey = "UserID"

// NewSecurityHeadersMiddleware rejects requests that did not pass through the
// gateway, which forwards the caller identity as headers.
func NewSecurityHeadersMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("User-ID"))
		authorization := strings.TrimSpace(c.Get("Authorization"))

		if userID == "" || authorization == "" {
			return unauthorized(c)
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		userCtx = context.WithValue(userCtx, UserIDKey, userID)

		c.SetUserContext(userCtx)
		return c.Next()
	}
}

func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func unauthorized(c *fiber.Ctx) error {
	err := httperror.Unauthorized(
		"catalog.security_headers.unauthorized",
		"Security headers mismatch",
		nil,
	)

	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
