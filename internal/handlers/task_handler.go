package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/identity"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskService interface {
	ListTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	CreateTask(ctx context.Context, userID uuid.UUID, req dto.CreateTaskRequest) (*models.Task, error)
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*services.CompletionResult, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	tasks, err := h.service.ListTasks(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch tasks")
	}

	return c.JSON(dto.NewTaskListResponse(tasks))
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.service.GetTask(c.UserContext(), userID, taskID)
	if err != nil {
		return respondError(c, err, "Failed to fetch task")
	}

	return c.JSON(dto.NewTaskResponse(task))
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.service.CreateTask(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err, "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewTaskResponse(task))
}

func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	result, err := h.service.CompleteTask(c.UserContext(), userID, taskID)
	if err != nil {
		return respondError(c, err, "Failed to complete task")
	}

	return c.JSON(dto.CompleteTaskResponse{
		Task:             dto.NewTaskResponse(result.Task),
		AlreadyCompleted: result.AlreadyCompleted,
		PetPoints:        result.PetPoints,
	})
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	if err := h.service.DeleteTask(c.UserContext(), userID, taskID); err != nil {
		return respondError(c, err, "Failed to delete task")
	}

	return c.JSON(dto.MessageResponse{Message: "Task deleted successfully"})
}
