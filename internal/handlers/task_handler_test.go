package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeTaskService struct {
	tasks     map[uuid.UUID]*models.Task
	pets      map[uuid.UUID]int64
	failAll   error
	createErr error
}

func newFakeTaskService() *fakeTaskService {
	return &fakeTaskService{
		tasks: make(map[uuid.UUID]*models.Task),
		pets:  make(map[uuid.UUID]int64),
	}
}

func (f *fakeTaskService) owned(userID, taskID uuid.UUID) (*models.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, services.ErrNotFoundOrForbidden
	}
	return task, nil
}

func (f *fakeTaskService) ListTasks(_ context.Context, userID uuid.UUID) ([]models.Task, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	var out []models.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskService) GetTask(_ context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	return f.owned(userID, taskID)
}

func (f *fakeTaskService) CreateTask(_ context.Context, userID uuid.UUID, req dto.CreateTaskRequest) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if req.Description == "" {
		return nil, &services.ValidationError{Field: "description", Message: "description is required"}
	}
	points := 1
	if req.Points != nil {
		points = *req.Points
	}
	due, err := services.ParseDueDate(valueOr(req.DueDate))
	if err != nil {
		return nil, err
	}
	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Description: req.Description,
		Points:      points,
		CreatedOn:   datatypes.Date(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		DueDate:     due,
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskService) CompleteTask(_ context.Context, userID, taskID uuid.UUID) (*services.CompletionResult, error) {
	task, err := f.owned(userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return &services.CompletionResult{Task: task, AlreadyCompleted: true, PetPoints: f.pets[userID]}, nil
	}
	task.Completed = true
	f.pets[userID] += int64(task.Points)
	return &services.CompletionResult{Task: task, PetPoints: f.pets[userID]}, nil
}

func (f *fakeTaskService) DeleteTask(_ context.Context, userID, taskID uuid.UUID) error {
	if _, err := f.owned(userID, taskID); err != nil {
		return err
	}
	delete(f.tasks, taskID)
	return nil
}

func valueOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mountTasks(userID uuid.UUID, svc TaskService) *fiber.App {
	app := newTestApp(userID)
	h := NewTaskHandler(svc)
	app.Get("/tasks", h.List)
	app.Post("/tasks", h.Create)
	app.Get("/tasks/:id", h.Get)
	app.Post("/tasks/:id/complete", h.Complete)
	app.Delete("/tasks/:id", h.Delete)
	return app
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	svc := newFakeTaskService()
	ana := uuid.New()
	app := mountTasks(ana, svc)

	due := "2030-05-01"
	status, raw := doJSON(t, app, http.MethodPost, "/tasks", map[string]interface{}{
		"description": "Walk the dog",
		"points":      20,
		"due_date":    due,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode[dto.TaskResponse](t, raw)
	assert.Equal(t, "Walk the dog", created.Description)
	assert.False(t, created.Completed)
	assert.Equal(t, 20, created.Points)
	assert.Equal(t, "2025-03-01", created.CreatedOn)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, due, *created.DueDate)

	path := "/tasks/" + created.ID.String()

	status, raw = doJSON(t, app, http.MethodPost, path+"/complete", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	first := decode[dto.CompleteTaskResponse](t, raw)
	assert.True(t, first.Task.Completed)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, int64(20), first.PetPoints)

	status, raw = doJSON(t, app, http.MethodPost, path+"/complete", nil)
	require.Equal(t, http.StatusOK, status)
	second := decode[dto.CompleteTaskResponse](t, raw)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, int64(20), second.PetPoints)

	status, _ = doJSON(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, status)

	status, raw = doJSON(t, app, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[dto.TaskListResponse](t, raw)
	assert.Empty(t, list.Tasks)
	assert.Equal(t, 0, list.Total)
}

func TestCreateTaskValidationErrors(t *testing.T) {
	app := mountTasks(uuid.New(), newFakeTaskService())

	status, raw := doJSON(t, app, http.MethodPost, "/tasks", map[string]interface{}{"description": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	errResp := decode[dto.ErrorResponse](t, raw)
	assert.True(t, errResp.Error)
	assert.Equal(t, "description", errResp.Field)

	status, raw = doJSON(t, app, http.MethodPost, "/tasks", map[string]interface{}{
		"description": "x", "due_date": "2023-02-30",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "due_date", decode[dto.ErrorResponse](t, raw).Field)
}

func TestForeignTaskLooksMissing(t *testing.T) {
	svc := newFakeTaskService()
	ana, bob := uuid.New(), uuid.New()

	owner := mountTasks(ana, svc)
	status, raw := doJSON(t, owner, http.MethodPost, "/tasks", map[string]interface{}{"description": "mine"})
	require.Equal(t, http.StatusCreated, status)
	task := decode[dto.TaskResponse](t, raw)

	intruder := mountTasks(bob, svc)
	path := "/tasks/" + task.ID.String()

	statusForeign, rawForeign := doJSON(t, intruder, http.MethodPost, path+"/complete", nil)
	statusMissing, rawMissing := doJSON(t, intruder, http.MethodPost, "/tasks/"+uuid.NewString()+"/complete", nil)
	assert.Equal(t, http.StatusNotFound, statusForeign)
	assert.Equal(t, statusMissing, statusForeign)
	assert.JSONEq(t, string(rawMissing), string(rawForeign))

	status, _ = doJSON(t, intruder, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doJSON(t, intruder, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)

	assert.False(t, svc.tasks[task.ID].Completed)
}

func TestTaskRoutesRequireIdentity(t *testing.T) {
	app := mountTasks(uuid.Nil, newFakeTaskService())

	status, _ := doJSON(t, app, http.MethodGet, "/tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestInvalidTaskID(t *testing.T) {
	app := mountTasks(uuid.New(), newFakeTaskService())

	status, raw := doJSON(t, app, http.MethodPost, "/tasks/not-a-uuid/complete", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid task ID", decode[dto.ErrorResponse](t, raw).Message)
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	svc := newFakeTaskService()
	svc.failAll = errors.New("pq: relation \"tasks\" does not exist")
	app := mountTasks(uuid.New(), svc)

	status, raw := doJSON(t, app, http.MethodGet, "/tasks", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	errResp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "Failed to fetch tasks", errResp.Message)
	assert.NotContains(t, string(raw), "relation")
}

func TestCreateTaskForDeletedAccount(t *testing.T) {
	svc := newFakeTaskService()
	svc.createErr = services.ErrUserNotFound
	app := mountTasks(uuid.New(), svc)

	status, raw := doJSON(t, app, http.MethodPost, "/tasks", map[string]interface{}{"description": "late"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Account not found. Please log in again.", decode[dto.ErrorResponse](t, raw).Message)
}
