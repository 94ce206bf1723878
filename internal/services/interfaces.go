package services

import (
	"context"

	"task-store/internal/domain"
)

// CreateTaskInput holds raw values for a new task. An empty ID asks the
// service to generate one.
type CreateTaskInput struct {
	ID     string
	Body   string
	Status string
}

// UpdateTaskInput changes body and/or status of an existing task. Nil fields
// are kept as stored.
type UpdateTaskInput struct {
	Body   *string
	Status *string
}

// TaskService handles task lifecycle operations on top of a TaskRepository
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// GetTask fails with a not found error when the task does not exist.
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// FindTask returns nil and no error when the task does not exist.
	FindTask(ctx context.Context, id string) (*domain.Task, error)

	ListTasks(ctx context.Context) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error)

	// DeleteTask fails with a not found error when nothing was removed.
	DeleteTask(ctx context.Context, id string) error
}
