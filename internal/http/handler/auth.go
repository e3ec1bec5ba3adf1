package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gradia/internal/auth"
)

// VerifyToken checks the bearer token without provisioning a user.
//
// @Summary  Verify a Firebase ID token
// @Tags     auth
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Router   /finance/verify-token/ [post]
func VerifyToken(v auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AUTH_HEADER", "Authorization header is missing or malformed.")
		}
		tok, err := v.Verify(c.UserContext(), raw)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return writeError(c, fiber.StatusUnauthorized, "TOKEN_EXPIRED", "Firebase token has expired.")
			}
			return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Token verification failed.")
		}
		return c.JSON(fiber.Map{"uid": tok.UID, "message": "Token is valid."})
	}
}
