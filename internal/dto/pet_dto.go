package dto

import (
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/google/uuid"
)

type PetResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PointsTotal int64     `json:"points_total"`
}

type RenamePetRequest struct {
	Name string `json:"name"`
}

func NewPetResponse(p *models.Pet) PetResponse {
	return PetResponse{ID: p.ID, Name: p.Name, PointsTotal: p.PointsTotal}
}
