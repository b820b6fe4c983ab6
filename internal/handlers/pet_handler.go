package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/identity"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PetService interface {
	GetOrCreatePet(ctx context.Context, userID uuid.UUID) (*models.Pet, error)
	RenamePet(ctx context.Context, userID uuid.UUID, name string) (*models.Pet, error)
}

type PetHandler struct {
	service PetService
}

func NewPetHandler(service PetService) *PetHandler {
	return &PetHandler{service: service}
}

func (h *PetHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	pet, err := h.service.GetOrCreatePet(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch pet")
	}

	return c.JSON(dto.NewPetResponse(pet))
}

func (h *PetHandler) Rename(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.RenamePetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	pet, err := h.service.RenamePet(c.UserContext(), userID, req.Name)
	if err != nil {
		return respondError(c, err, "Failed to rename pet")
	}

	return c.JSON(dto.NewPetResponse(pet))
}
