package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"task-store/internal/domain"
)

// mockTaskRepository is a testify mock of domain.TaskRepository
type mockTaskRepository struct {
	mock.Mock
}

var _ domain.TaskRepository = (*mockTaskRepository)(nil)

func (m *mockTaskRepository) FindByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *mockTaskRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]domain.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskRepository) Create(ctx context.Context, task domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockTaskRepository) Update(ctx context.Context, task domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockTaskRepository) Delete(ctx context.Context, id domain.TaskID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
