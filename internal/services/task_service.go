package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/identity"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskService struct {
	db   *gorm.DB
	pets *PetService
	now  func() time.Time
}

func NewTaskService(db *gorm.DB, pets *PetService) *TaskService {
	return &TaskService{
		db:   db,
		pets: pets,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// ListTasks returns the user's tasks with open tasks first, then completed,
// each group in creation order.
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Scopes(identity.OwnedBy(userID)).
		Order("completed ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task. Missing and foreign tasks both yield
// ErrNotFoundOrForbidden.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Scopes(identity.OwnedBy(userID)).
		Where("id = ?", taskID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return &task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req dto.CreateTaskRequest) (*models.Task, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, invalid("description", "description is required")
	}
	if utf8.RuneCountInString(description) > models.MaxTaskDescriptionLength {
		return nil, invalid("description", fmt.Sprintf("description must be at most %d characters", models.MaxTaskDescriptionLength))
	}

	points := models.DefaultTaskPoints
	if req.Points != nil {
		points = *req.Points
	}
	if points <= 0 {
		return nil, invalid("points", "points must be a positive integer")
	}

	var dueDate *datatypes.Date
	if req.DueDate != nil {
		d, err := ParseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = d
	}

	now := s.now()
	task := models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		Points:      points,
		CreatedOn:   datatypes.Date(truncateToDate(now)),
		DueDate:     dueDate,
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// DeleteTask removes the task row and nothing else. Points already credited
// to the pet stay.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Scopes(identity.OwnedBy(userID)).
		Where("id = ?", taskID).
		Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}

// ParseDueDate accepts "" (no due date) or a YYYY-MM-DD calendar date.
func ParseDueDate(s string) (*datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, invalid("due_date", "due_date must be a valid date in YYYY-MM-DD format")
	}
	d := datatypes.Date(t)
	return &d, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
