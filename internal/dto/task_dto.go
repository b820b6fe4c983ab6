package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DateLayout is the wire format for created_on and due_date.
const DateLayout = "2006-01-02"

// CreateTaskRequest is the body of POST /api/tasks. Points and DueDate are
// optional; nil means "use the default".
type CreateTaskRequest struct {
	Description string  `json:"description"`
	Points      *int    `json:"points"`
	DueDate     *string `json:"due_date"`
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Points      int       `json:"points"`
	CreatedOn   string    `json:"created_on"`
	DueDate     *string   `json:"due_date"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

type CompleteTaskResponse struct {
	Task             TaskResponse `json:"task"`
	AlreadyCompleted bool         `json:"already_completed"`
	PetPoints        int64        `json:"pet_points"`
}

func NewTaskResponse(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Points:      t.Points,
		CreatedOn:   formatDate(t.CreatedOn),
	}
	if t.DueDate != nil {
		due := formatDate(*t.DueDate)
		resp.DueDate = &due
	}
	return resp
}

func NewTaskListResponse(tasks []models.Task) TaskListResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return TaskListResponse{Tasks: out, Total: len(out)}
}

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}
