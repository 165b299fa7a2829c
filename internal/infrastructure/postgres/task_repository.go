package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/internal/domain/entity"
	"github.com/devarta/taskboard/internal/domain/repository"
)

const taskColumns = `t.id, t.project_id, t.title, t.description, t.status, t.priority, t.due_date, t.assigned_user_id, t.created_at, t.updated_at`

// TaskRepository joins through projects on every scoped query so that a
// task under another user's project behaves as absent.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, description, status, priority, due_date, assigned_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, t.ProjectID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.AssignedUserID)

	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) GetScoped(ctx context.Context, id, ownerID string) (*entity.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1 AND p.owner_id = $2
	`, id, ownerID)
	return scanTask(row)
}

func (r *TaskRepository) ListScoped(ctx context.Context, ownerID string, f repository.TaskFilter) ([]*entity.Task, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE p.owner_id = $1`)
	args := []any{ownerID}

	add := func(clause string, v any) {
		args = append(args, v)
		sb.WriteString(fmt.Sprintf(" AND %s = $%d", clause, len(args)))
	}
	if f.Status != nil {
		add("t.status", *f.Status)
	}
	if f.Priority != nil {
		add("t.priority", *f.Priority)
	}
	if f.DueDate != nil {
		add("t.due_date", *f.DueDate)
	}
	if f.ProjectID != nil {
		add("t.project_id", *f.ProjectID)
	}

	switch f.SortBy {
	case "priority":
		sb.WriteString(" ORDER BY t.priority")
	case "due_date":
		sb.WriteString(" ORDER BY t.due_date")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.project_id = $1
		ORDER BY t.created_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, assigned_user_id = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.AssignedUserID, t.ID)

	if err := row.Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *TaskRepository) DeleteScoped(ctx context.Context, id, ownerID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM tasks t
		USING projects p
		WHERE t.id = $1 AND t.project_id = p.id AND p.owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.AssignedUserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func scanTasks(rows pgx.Rows) ([]*entity.Task, error) {
	var out []*entity.Task
	for rows.Next() {
		t := &entity.Task{}
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.AssignedUserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
