package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxPetNameLength = 20

// Pet accumulates the points of its owner's completed tasks. The unique index
// on user_id is what makes lazy creation race-safe.
type Pet struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pets_user_id" json:"user_id"`
	Name        string    `gorm:"size:20;not null" json:"name"`
	PointsTotal int64     `gorm:"not null;default:0;check:chk_pets_points_non_negative,points_total >= 0" json:"points_total"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
