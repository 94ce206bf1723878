package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"task-store/internal/domain"
	"task-store/internal/errors"
	"task-store/internal/logging"
)

const taskResource = "task"

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo   domain.TaskRepository
	logger *slog.Logger
	newID  func() string
}

// NewTaskService creates a new TaskService instance. A nil logger discards
// output.
func NewTaskService(repo domain.TaskRepository, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &taskServiceImpl{
		repo:   repo,
		logger: logger,
		newID:  GenerateTaskID,
	}
}

// GenerateTaskID returns a fresh id of the form "task-<uuid>".
func GenerateTaskID() string {
	return "task-" + uuid.NewString()
}

// CreateTask validates the input and stores a new task
func (s *taskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	id := input.ID
	if id == "" {
		id = s.newID()
	}

	task, err := domain.ParseTask(id, input.Body, input.Status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logFailure(ctx, "create", id, err)
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "task created", slog.String("task_id", id))
	return &task, nil
}

// GetTask retrieves a task by its ID
func (s *taskServiceImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.NewNotFoundError(taskResource, id)
	}
	return task, nil
}

func (s *taskServiceImpl) FindTask(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := domain.NewTaskID(id)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		s.logFailure(ctx, "find", id, err)
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logFailure(ctx, "list", "", err)
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies the given changes to an existing task
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error) {
	// validate the new values before touching the store
	var (
		body   *domain.TaskBody
		status *domain.TaskStatus
	)
	if input.Body != nil {
		b, err := domain.NewTaskBody(*input.Body)
		if err != nil {
			return nil, err
		}
		body = &b
	}
	if input.Status != nil {
		st, err := domain.NewTaskStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		status = &st
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *task
	if body != nil {
		updated = updated.WithBody(*body)
	}
	if status != nil {
		updated = updated.WithStatus(*status)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		s.logFailure(ctx, "update", id, err)
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "task updated", slog.String("task_id", id))
	return &updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	taskID, err := domain.NewTaskID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, taskID)
	if err != nil {
		s.logFailure(ctx, "delete", id, err)
		return err
	}
	if !deleted {
		return errors.NewNotFoundError(taskResource, id)
	}

	s.log(ctx).InfoContext(ctx, "task deleted", slog.String("task_id", id))
	return nil
}

// log prefers a request-scoped logger carried in ctx over the injected one.
func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func (s *taskServiceImpl) logFailure(ctx context.Context, op, id string, err error) {
	if !errors.ShouldLogError(err) {
		return
	}
	s.log(ctx).ErrorContext(ctx, "task operation failed",
		slog.String("operation", op),
		slog.String("task_id", id),
		slog.Any("error", err),
	)
}
