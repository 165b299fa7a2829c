package repository

import (
	"context"
	"time"

	"github.com/devarta/taskboard/internal/domain/entity"
)

// TaskFilter narrows a task listing. All set filters are conjunctive.
// SortBy is restricted to "priority" or "due_date"; empty means no ordering.
type TaskFilter struct {
	Status    *entity.TaskStatus
	Priority  *entity.TaskPriority
	DueDate   *time.Time
	ProjectID *string
	SortBy    string
	Limit     int
	Offset    int
}

// TaskRepository persists tasks. Reads and mutations are scoped through the
// owning project: a task whose project belongs to another user is absent.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetScoped(ctx context.Context, id, ownerID string) (*entity.Task, error)
	ListScoped(ctx context.Context, ownerID string, f TaskFilter) ([]*entity.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	DeleteScoped(ctx context.Context, id, ownerID string) error
}
