package domain

import "fmt"

// Task is the aggregate persisted by a TaskRepository. It can only be built
// from validated parts, so every non-zero Task holds valid fields.
type Task struct {
	id     TaskID
	body   TaskBody
	status TaskStatus
}

// NewTask assembles a Task from already-validated parts.
func NewTask(id TaskID, body TaskBody, status TaskStatus) Task {
	return Task{id: id, body: body, status: status}
}

// ParseTask validates raw strings and assembles a Task. The first invalid
// field, in id, body, status order, is reported.
func ParseTask(id, body, status string) (Task, error) {
	taskID, err := NewTaskID(id)
	if err != nil {
		return Task{}, err
	}
	taskBody, err := NewTaskBody(body)
	if err != nil {
		return Task{}, err
	}
	taskStatus, err := NewTaskStatus(status)
	if err != nil {
		return Task{}, err
	}
	return NewTask(taskID, taskBody, taskStatus), nil
}

func (t Task) ID() TaskID         { return t.id }
func (t Task) Body() TaskBody     { return t.body }
func (t Task) Status() TaskStatus { return t.status }

// WithBody returns a copy of t with a new body.
func (t Task) WithBody(body TaskBody) Task {
	t.body = body
	return t
}

// WithStatus returns a copy of t with a new status.
func (t Task) WithStatus(status TaskStatus) Task {
	t.status = status
	return t
}

// IsZero reports whether t is the zero Task, which has no valid id.
func (t Task) IsZero() bool {
	return t.id.IsZero()
}

// String returns a short representation for display and logs.
func (t Task) String() string {
	return fmt.Sprintf("%s [%s] %s", t.id.value, t.status.value, t.body.value)
}
