// Package memory keeps tasks in a map. It follows the same contract as the
// relational repositories and backs the "memory" driver and fast tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"task-store/internal/domain"
	apperrors "task-store/internal/errors"
)

type Repository struct {
	mu    sync.RWMutex
	tasks map[domain.TaskID]domain.Task
}

var _ domain.TaskRepository = (*Repository)(nil)

func New() *Repository {
	return &Repository{tasks: make(map[domain.TaskID]domain.Task)}
}

func (r *Repository) FindByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInfrastructureError("find task", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInfrastructureError("list tasks", err)
	}

	r.mu.RLock()
	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}
	r.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID().Value() < tasks[j].ID().Value()
	})
	return tasks, nil
}

func (r *Repository) Create(ctx context.Context, task domain.Task) error {
	if task.IsZero() {
		return apperrors.NewValidationError("task", "must not be the zero task", nil)
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewInfrastructureError("create task", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID()]; exists {
		return apperrors.NewInfrastructureError("create task", errDuplicateID(task.ID())).
			WithContext("constraint", "unique")
	}
	r.tasks[task.ID()] = task
	return nil
}

func (r *Repository) Update(ctx context.Context, task domain.Task) error {
	if task.IsZero() {
		return apperrors.NewValidationError("task", "must not be the zero task", nil)
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewInfrastructureError("update task", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID()]; !exists {
		return apperrors.NewNotFoundError("task", task.ID().Value())
	}
	r.tasks[task.ID()] = task
	return nil
}

func (r *Repository) Delete(ctx context.Context, id domain.TaskID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.NewInfrastructureError("delete task", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[id]; !exists {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

// Close is a no-op so the repository fits the same lifecycle as the others.
func (r *Repository) Close() error { return nil }

type errDuplicateID domain.TaskID

func (e errDuplicateID) Error() string {
	return "duplicate task id " + domain.TaskID(e).Value()
}
