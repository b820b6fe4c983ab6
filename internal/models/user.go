package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns exactly one Pet and any number of Tasks. Dependent rows are
// removed explicitly by services.AuthService.DeleteUser, not by FK cascades.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex:idx_users_username" json:"username"`
	Email     string    `gorm:"size:100;not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Pet   *Pet   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"pet,omitempty"`
	Tasks []Task `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
}
