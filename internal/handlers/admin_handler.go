package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserDeleter interface {
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type AdminHandler struct {
	users UserDeleter
}

func NewAdminHandler(users UserDeleter) *AdminHandler {
	return &AdminHandler{users: users}
}

// DeleteUser removes any account with its pet and tasks.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.users.DeleteUser(c.UserContext(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return respondError(c, err, "Failed to delete user")
	}

	slog.Info("user deleted by admin", "action", "admin_delete_user", "user_id", userID.String())
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully"})
}
