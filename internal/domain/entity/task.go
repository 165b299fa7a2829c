package entity

import (
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the allowed status values.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TaskPriority ranks a task's urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the allowed priority values.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to exactly one project. ProjectID is immutable after
// creation; AssignedUserID and DueDate are nullable.
type Task struct {
	ID             string
	ProjectID      string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	AssignedUserID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assigned reports whether the task currently has an assignee.
func (t *Task) Assigned() bool {
	return t.AssignedUserID != nil && *t.AssignedUserID != ""
}
