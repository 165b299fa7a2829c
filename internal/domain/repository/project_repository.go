package repository

import (
	"context"

	"github.com/devarta/taskboard/internal/domain/entity"
)

// ProjectRepository persists projects. Every read and mutation is scoped by
// the owning user: a project belonging to someone else behaves as absent.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByOwner(ctx context.Context, id, ownerID string) (*entity.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	DeleteByOwner(ctx context.Context, id, ownerID string) error
}
