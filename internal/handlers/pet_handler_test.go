package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePetService struct {
	pets map[uuid.UUID]*models.Pet
}

func (f *fakePetService) GetOrCreatePet(_ context.Context, userID uuid.UUID) (*models.Pet, error) {
	if p, ok := f.pets[userID]; ok {
		return p, nil
	}
	p := &models.Pet{ID: uuid.New(), UserID: userID, Name: services.DefaultPetName}
	f.pets[userID] = p
	return p, nil
}

func (f *fakePetService) RenamePet(ctx context.Context, userID uuid.UUID, name string) (*models.Pet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &services.ValidationError{Field: "name", Message: "name is required"}
	}
	p, _ := f.GetOrCreatePet(ctx, userID)
	p.Name = name
	return p, nil
}

func TestPetGetAndRename(t *testing.T) {
	ana := uuid.New()
	svc := &fakePetService{pets: map[uuid.UUID]*models.Pet{}}
	app := newTestApp(ana)
	h := NewPetHandler(svc)
	app.Get("/pet", h.Get)
	app.Put("/pet", h.Rename)

	status, raw := doJSON(t, app, http.MethodGet, "/pet", nil)
	require.Equal(t, http.StatusOK, status)
	pet := decode[dto.PetResponse](t, raw)
	assert.Equal(t, "Pengu", pet.Name)
	assert.Equal(t, int64(0), pet.PointsTotal)

	status, raw = doJSON(t, app, http.MethodPut, "/pet", dto.RenamePetRequest{Name: "  Waddles "})
	require.Equal(t, http.StatusOK, status)
	renamed := decode[dto.PetResponse](t, raw)
	assert.Equal(t, "Waddles", renamed.Name)
	assert.Equal(t, pet.ID, renamed.ID)

	status, raw = doJSON(t, app, http.MethodPut, "/pet", dto.RenamePetRequest{Name: " "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name", decode[dto.ErrorResponse](t, raw).Field)
}
