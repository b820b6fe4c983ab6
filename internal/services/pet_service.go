package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/identity"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultPetName = "Pengu"

type PetService struct {
	db          *gorm.DB
	defaultName string
}

func NewPetService(db *gorm.DB, defaultName string) *PetService {
	if strings.TrimSpace(defaultName) == "" {
		defaultName = DefaultPetName
	}
	return &PetService{db: db, defaultName: defaultName}
}

// WithTx returns a PetService bound to tx, so that pet reads and writes join
// the caller's transaction.
func (s *PetService) WithTx(tx *gorm.DB) *PetService {
	return &PetService{db: tx, defaultName: s.defaultName}
}

// GetOrCreatePet returns the user's pet, creating it with the default name and
// zero points when it is missing. The insert uses ON CONFLICT DO NOTHING on
// the user_id unique index, so racing callers converge on a single row.
func (s *PetService) GetOrCreatePet(ctx context.Context, userID uuid.UUID) (*models.Pet, error) {
	db := s.db.WithContext(ctx)

	pet, err := findPet(db, userID)
	if err == nil {
		return pet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load pet: %w", err)
	}

	if err := s.insertIfAbsent(db, userID); err != nil {
		return nil, err
	}

	pet, err = findPet(db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pet after create: %w", err)
	}
	return pet, nil
}

// FindPet returns the user's pet without creating one.
func (s *PetService) FindPet(ctx context.Context, userID uuid.UUID) (*models.Pet, error) {
	pet, err := findPet(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return pet, nil
}

// AwardPoints adds amount to the pet's total with a single atomic UPDATE and
// refreshes pet.PointsTotal from the row.
func (s *PetService) AwardPoints(ctx context.Context, pet *models.Pet, amount int) error {
	if amount <= 0 {
		return invalid("points", "points must be a positive integer")
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&models.Pet{}).
		Where("id = ?", pet.ID).
		Update("points_total", gorm.Expr("points_total + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to award points: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("failed to award points: pet %s not found", pet.ID)
	}

	var total int64
	if err := db.Model(&models.Pet{}).Where("id = ?", pet.ID).Pluck("points_total", &total).Error; err != nil {
		return fmt.Errorf("failed to reload points: %w", err)
	}
	pet.PointsTotal = total
	return nil
}

// RenamePet changes the display name of the user's pet, creating the pet
// first if needed.
func (s *PetService) RenamePet(ctx context.Context, userID uuid.UUID, name string) (*models.Pet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "pet name is required")
	}
	if utf8.RuneCountInString(name) > models.MaxPetNameLength {
		return nil, invalid("name", fmt.Sprintf("pet name must be at most %d characters", models.MaxPetNameLength))
	}

	var pet *models.Pet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.WithTx(tx).GetOrCreatePet(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(p).Update("name", name).Error; err != nil {
			return fmt.Errorf("failed to rename pet: %w", err)
		}
		p.Name = name
		pet = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pet, nil
}

// create inserts a fresh pet for a newly registered user.
func (s *PetService) create(tx *gorm.DB, userID uuid.UUID) (*models.Pet, error) {
	pet := models.Pet{
		ID:     uuid.New(),
		UserID: userID,
		Name:   s.defaultName,
	}
	if err := tx.Create(&pet).Error; err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return &pet, nil
}

func (s *PetService) insertIfAbsent(db *gorm.DB, userID uuid.UUID) error {
	pet := models.Pet{
		ID:     uuid.New(),
		UserID: userID,
		Name:   s.defaultName,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&pet).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

func findPet(db *gorm.DB, userID uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := db.Scopes(identity.OwnedBy(userID)).First(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}
