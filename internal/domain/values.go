package domain

import (
	"errors"

	apperrors "task-store/internal/errors"
	"task-store/internal/validation"
)

// MaxStatusLength is the maximum number of characters in a TaskStatus.
const MaxStatusLength = 2

const (
	fieldTaskID     = "task_id"
	fieldTaskBody   = "task_body"
	fieldTaskStatus = "task_status"
)

// TaskID identifies a task. It is never empty or whitespace-only.
// The value is kept exactly as given; surrounding whitespace is not trimmed.
type TaskID struct {
	value string
}

// NewTaskID validates id and wraps it.
func NewTaskID(id string) (TaskID, error) {
	err := validation.NewValidator().
		ValidText(fieldTaskID, id).
		Required(fieldTaskID, id).
		Err()
	if err != nil {
		return TaskID{}, toDomainError(err)
	}
	return TaskID{value: id}, nil
}

// MustTaskID is NewTaskID for literals known to be valid. It panics otherwise.
func MustTaskID(id string) TaskID {
	taskID, err := NewTaskID(id)
	if err != nil {
		panic(err)
	}
	return taskID
}

func (id TaskID) String() string { return id.value }

// Value returns the raw string handed to persistence.
func (id TaskID) Value() string { return id.value }

// IsZero reports whether id is the zero TaskID, which no constructor returns.
func (id TaskID) IsZero() bool { return id.value == "" }

// TaskBody is the free-text description of a task. Any well-formed text,
// including the empty string, is accepted.
type TaskBody struct {
	value string
}

func NewTaskBody(body string) (TaskBody, error) {
	if err := validation.NewValidator().ValidText(fieldTaskBody, body).Err(); err != nil {
		return TaskBody{}, toDomainError(err)
	}
	return TaskBody{value: body}, nil
}

func (b TaskBody) String() string { return b.value }
func (b TaskBody) Value() string  { return b.value }

// TaskStatus is a short status code of at most MaxStatusLength characters.
// The empty string is a valid status.
type TaskStatus struct {
	value string
}

func NewTaskStatus(status string) (TaskStatus, error) {
	err := validation.NewValidator().
		ValidText(fieldTaskStatus, status).
		MaxLength(fieldTaskStatus, status, MaxStatusLength).
		Err()
	if err != nil {
		return TaskStatus{}, toDomainError(err)
	}
	return TaskStatus{value: status}, nil
}

func (s TaskStatus) String() string { return s.value }
func (s TaskStatus) Value() string  { return s.value }

// toDomainError converts field validation failures into a domain
// validation error naming the first failing field and rule.
func toDomainError(err error) error {
	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		if fe, ok := ve.First(); ok {
			return apperrors.NewValidationError(fe.Field, fe.Message, err)
		}
	}
	return apperrors.NewValidationError("task", err.Error(), err)
}
