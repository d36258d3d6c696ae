package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperrors"
)

// UserIDKey is the fiber.Locals key holding the authenticated user id.
const UserIDKey = "user_id"

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// AuthRequired is a Fiber middleware that requires a valid bearer token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return apperrors.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		userID, err := validator.ValidateToken(parts[1])
		if err != nil {
			return apperrors.Unauthorized("Invalid or expired token")
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
