package sqlite

import (
	"task-store/internal/domain"
	apperrors "task-store/internal/errors"
)

// taskRow is the raw shape of a row in the task table. Nothing about it is
// trusted until toDomain has run it through the value-object constructors.
type taskRow struct {
	ID     string
	Body   string
	Status string
}

func rowFromTask(task domain.Task) taskRow {
	return taskRow{
		ID:     task.ID().Value(),
		Body:   task.Body().Value(),
		Status: task.Status().Value(),
	}
}

func (r taskRow) toDomain() (domain.Task, error) {
	task, err := domain.ParseTask(r.ID, r.Body, r.Status)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			appErr.WithContext("row_id", r.ID)
		}
		return domain.Task{}, err
	}
	return task, nil
}
