package domain

import "context"

// TaskRepository is the persistence contract for tasks.
//
// Every failure is an *errors.AppError: Validation when stored data no
// longer satisfies the value-object rules, NotFound when Update matches no
// row, Infrastructure for anything the store reports.
type TaskRepository interface {
	// FindByID returns nil and no error when the task does not exist.
	FindByID(ctx context.Context, id TaskID) (*Task, error)

	// FindAll returns every task ordered by id. A single invalid row fails
	// the whole read.
	FindAll(ctx context.Context) ([]Task, error)

	// Create inserts a new task. A duplicate id is an infrastructure error.
	Create(ctx context.Context, task Task) error

	// Update overwrites body and status of an existing task.
	Update(ctx context.Context, task Task) error

	// Delete removes the task and reports whether a row was removed.
	Delete(ctx context.Context, id TaskID) (bool, error)
}
