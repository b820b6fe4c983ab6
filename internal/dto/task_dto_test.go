package dto

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNewTaskResponseDates(t *testing.T) {
	due := datatypes.Date(time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC))
	task := &models.Task{
		ID:          uuid.New(),
		Description: "Buy gifts",
		Points:      5,
		CreatedOn:   datatypes.Date(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		DueDate:     &due,
	}

	resp := NewTaskResponse(task)
	assert.Equal(t, "2025-03-01", resp.CreatedOn)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2025-12-24", *resp.DueDate)

	task.DueDate = nil
	assert.Nil(t, NewTaskResponse(task).DueDate)
}

func TestNewTaskListResponseNeverNil(t *testing.T) {
	list := NewTaskListResponse(nil)
	assert.NotNil(t, list.Tasks)
	assert.Equal(t, 0, list.Total)
}
