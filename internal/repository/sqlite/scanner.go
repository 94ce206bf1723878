package sqlite

import (
	"task-store/internal/domain"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans one row and validates it into a domain Task.
func ScanTask(scanner Scanner) (*domain.Task, error) {
	var row taskRow
	if err := scanner.Scan(&row.ID, &row.Body, &row.Status); err != nil {
		return nil, err
	}

	task, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ScanTasks maps rows one at a time and stops at the first row that fails to
// scan or validate; no partial result is returned.
func ScanTasks(rows Rows) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
