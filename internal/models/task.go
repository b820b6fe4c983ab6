package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MaxTaskDescriptionLength = 100
	DefaultTaskPoints        = 1
)

// Task is a unit of work. Completed only ever moves from false to true.
type Task struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_tasks_user_completed,priority:1" json:"user_id"`
	Description string          `gorm:"size:100;not null" json:"description"`
	Completed   bool            `gorm:"not null;default:false;index:idx_tasks_user_completed,priority:2" json:"completed"`
	Points      int             `gorm:"not null;default:1;check:chk_tasks_points_positive,points > 0" json:"points"`
	CreatedOn   datatypes.Date  `gorm:"not null" json:"created_on"`
	DueDate     *datatypes.Date `json:"due_date"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// State returns "completed" or "open".
func (t *Task) State() string {
	if t.Completed {
		return "completed"
	}
	return "open"
}
