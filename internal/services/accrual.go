package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/identity"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionResult is the outcome of CompleteTask. AlreadyCompleted is set
// when the task was completed earlier; nothing was written in that case.
type CompletionResult struct {
	Task             *models.Task
	AlreadyCompleted bool
	PetPoints        int64
}

// CompleteTask moves a task from open to completed and credits its points to
// the owner's pet. Both writes commit together or not at all.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*CompletionResult, error) {
	var result *CompletionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.accrue(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFoundOrForbidden) {
			slog.ErrorContext(ctx, "task completion rolled back",
				"action", "complete_task",
				"user_id", userID.String(),
				"task_id", taskID.String(),
				"error", err.Error(),
			)
		}
		return nil, err
	}
	return result, nil
}

// accrue runs inside tx. The task row is locked FOR UPDATE so a concurrent
// completion of the same task waits here and then sees completed = true.
func (s *TaskService) accrue(ctx context.Context, tx *gorm.DB, userID, taskID uuid.UUID) (*CompletionResult, error) {
	var task models.Task
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(identity.OwnedBy(userID)).
		Where("id = ?", taskID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	pets := s.pets.WithTx(tx)

	if task.Completed {
		return s.alreadyCompleted(ctx, pets, &task)
	}

	completedAt := s.now()
	res := tx.Model(&models.Task{}).
		Where("id = ? AND completed = ?", task.ID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to complete task: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return s.alreadyCompleted(ctx, pets, &task)
	}

	pet, err := pets.GetOrCreatePet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: pet for user %s could not be resolved: %w", ErrInternal, userID, err)
	}
	if err := pets.AwardPoints(ctx, pet, task.Points); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	task.Completed = true
	task.CompletedAt = &completedAt

	return &CompletionResult{
		Task:      &task,
		PetPoints: pet.PointsTotal,
	}, nil
}

func (s *TaskService) alreadyCompleted(ctx context.Context, pets *PetService, task *models.Task) (*CompletionResult, error) {
	task.Completed = true
	result := &CompletionResult{Task: task, AlreadyCompleted: true}

	pet, err := pets.FindPet(ctx, task.UserID)
	switch {
	case err == nil:
		result.PetPoints = pet.PointsTotal
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("failed to load pet: %w", err)
	}
	return result, nil
}
