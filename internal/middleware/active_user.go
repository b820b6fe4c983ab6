package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserChecker interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ActiveUser rejects otherwise valid tokens whose account has since been
// deleted. It must run after JWTProtected.
func ActiveUser(users UserChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		ok, err := users.UserExists(c.UserContext(), userID)
		if err != nil {
			slog.Error("user lookup failed", "user_id", userID.String(), "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Account not found. Please log in again.",
			})
		}

		return c.Next()
	}
}
