package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"gradia/internal/auth"
	"gradia/internal/model"
	"gradia/internal/service"
)

// UserLocalKey holds the authenticated *model.User in Fiber's context locals.
const UserLocalKey = "user"

// Auth verifies the Firebase bearer token of every request and loads or
// provisions the matching local user.
func Auth(verifier auth.Verifier, users service.UserService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header is missing or malformed.")
		}

		ctx := c.UserContext()
		tok, err := verifier.Verify(ctx, raw)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Firebase token has expired.")
			}
			logger.WarnContext(ctx, "auth_token_rejected", "request_id", RequestIDFrom(ctx), "error", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid Firebase token.")
		}

		u, err := users.EnsureUser(ctx, tok.UID, tok.Email)
		if err != nil {
			logger.ErrorContext(ctx, "auth_user_lookup_failed", "request_id", RequestIDFrom(ctx), "error", err)
			return err
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
