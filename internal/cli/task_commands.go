package cli

import (
	"context"
	"strconv"
	"strings"

	apperrors "task-store/internal/errors"
	"task-store/internal/services"
)

// CreateCommand handles the create command
type CreateCommand struct{ app *App }

func NewCreateCommand(app *App) *CreateCommand { return &CreateCommand{app: app} }

// Execute stores a new task and prints it
func (c *CreateCommand) Execute(ctx context.Context, input services.CreateTaskInput) error {
	task, err := c.app.service.CreateTask(ctx, input)
	if err != nil {
		return c.app.errors.Handle("create task", err)
	}
	return c.app.printer.Task(*task)
}

// GetCommand handles the get command
type GetCommand struct{ app *App }

func NewGetCommand(app *App) *GetCommand { return &GetCommand{app: app} }

func (c *GetCommand) Execute(ctx context.Context, id string) error {
	task, err := c.app.service.GetTask(ctx, id)
	if err != nil {
		return c.app.errors.Handle("get task", err)
	}
	return c.app.printer.Task(*task)
}

// ListCommand handles the list command
type ListCommand struct{ app *App }

func NewListCommand(app *App) *ListCommand { return &ListCommand{app: app} }

func (c *ListCommand) Execute(ctx context.Context) error {
	tasks, err := c.app.service.ListTasks(ctx)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}
	return c.app.printer.Tasks(tasks)
}

// UpdateCommand handles the update command
type UpdateCommand struct{ app *App }

func NewUpdateCommand(app *App) *UpdateCommand { return &UpdateCommand{app: app} }

// Execute changes body and/or status of an existing task. At least one of
// them must be set.
func (c *UpdateCommand) Execute(ctx context.Context, id string, input services.UpdateTaskInput) error {
	if input.Body == nil && input.Status == nil {
		return c.app.errors.Handle("update task",
			apperrors.NewValidationError("update", "at least one of --body or --status is required", nil))
	}

	task, err := c.app.service.UpdateTask(ctx, id, input)
	if err != nil {
		return c.app.errors.Handle("update task", err)
	}
	return c.app.printer.Task(*task)
}

// DeleteCommand handles the delete command
type DeleteCommand struct{ app *App }

func NewDeleteCommand(app *App) *DeleteCommand { return &DeleteCommand{app: app} }

func (c *DeleteCommand) Execute(ctx context.Context, id string) error {
	if err := c.app.service.DeleteTask(ctx, id); err != nil {
		return c.app.errors.Handle("delete task", err)
	}
	return c.app.printer.Message("Deleted task %s", id)
}

// MigrateCommand applies or rolls back schema migrations
type MigrateCommand struct{ app *App }

func NewMigrateCommand(app *App) *MigrateCommand { return &MigrateCommand{app: app} }

// Execute migrates to the latest schema, or rolls back the newest applied
// migration when down is set.
func (c *MigrateCommand) Execute(ctx context.Context, down bool) error {
	if c.app.migrator == nil {
		return c.app.printer.Message("Store has no schema to migrate.")
	}

	if !down {
		if err := c.app.migrator.Migrate(ctx); err != nil {
			return c.app.errors.Handle("migrate", err)
		}
		return c.app.printer.Message("Schema is up to date.")
	}

	version, err := c.app.migrator.RollbackLatest(ctx)
	if err != nil {
		return c.app.errors.Handle("roll back migration", err)
	}
	if version == 0 {
		return c.app.printer.Message("No migrations to roll back.")
	}
	return c.app.printer.Message("Rolled back migration %d.", version)
}

// Status reports the migration versions that have not been applied yet.
func (c *MigrateCommand) Status(ctx context.Context) error {
	if c.app.migrator == nil {
		return c.app.printer.Message("Store has no schema to migrate.")
	}

	pending, err := c.app.migrator.Pending(ctx)
	if err != nil {
		return c.app.errors.Handle("read migration status", err)
	}
	if len(pending) == 0 {
		return c.app.printer.Message("No pending migrations.")
	}

	versions := make([]string, len(pending))
	for i, v := range pending {
		versions[i] = strconv.Itoa(v)
	}
	return c.app.printer.Message("Pending migrations: %s", strings.Join(versions, ", "))
}
