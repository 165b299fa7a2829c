package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/internal/domain/entity"
	"github.com/devarta/taskboard/internal/domain/repository"
)

// ProjectRepository scopes every read and mutation by owner_id so that a
// project belonging to another user is indistinguishable from an absent one.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (owner_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.OwnerID, p.Title, p.Description)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepository) GetByOwner(ctx context.Context, id, ownerID string) (*entity.Project, error) {
	p := &entity.Project{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, description, created_at, updated_at
		FROM projects
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, title, description, created_at, updated_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Project
	for rows.Next() {
		p := &entity.Project{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE projects
		SET title = $1, description = $2, updated_at = now()
		WHERE id = $3 AND owner_id = $4
	`, p.Title, p.Description, p.ID, p.OwnerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) DeleteByOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM projects
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
