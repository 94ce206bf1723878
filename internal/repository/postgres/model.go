package postgres

import (
	"github.com/jackc/pgx/v5"

	"task-store/internal/domain"
	apperrors "task-store/internal/errors"
)

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

// toDomain re-validates a stored row.
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

// scanTask is a pgx.RowToFunc; pgx.CollectRows stops at its first error.
func scanTask(row pgx.CollectableRow) (domain.Task, error) {
	var r taskRow
	if err := row.Scan(&r.ID, &r.Body, &r.Status); err != nil {
		return domain.Task{}, err
	}
	return r.toDomain()
}
