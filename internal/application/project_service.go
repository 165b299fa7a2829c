package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/internal/domain/entity"
	repo "github.com/devarta/taskboard/internal/domain/repository"
	"github.com/devarta/taskboard/pkg/optional"
)

// ProjectService is plain owner-scoped CRUD around projects.
type ProjectService struct {
	Projects repo.ProjectRepository
	Tasks    repo.TaskRepository
	Logger   *logrus.Logger
}

func NewProjectService(projects repo.ProjectRepository, tasks repo.TaskRepository, logger *logrus.Logger) *ProjectService {
	return &ProjectService{Projects: projects, Tasks: tasks, Logger: logger}
}

type CreateProjectInput struct {
	Title       string
	Description string
}

func (s *ProjectService) Create(ctx context.Context, ownerID string, in CreateProjectInput) (*entity.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidField("title", "must not be empty")
	}
	p := &entity.Project{OwnerID: ownerID, Title: in.Title, Description: in.Description}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context, ownerID string) ([]*entity.Project, error) {
	return s.Projects.ListByOwner(ctx, ownerID)
}

// Get returns a scoped project together with its tasks.
func (s *ProjectService) Get(ctx context.Context, ownerID, projectID string) (*entity.Project, []*entity.Task, error) {
	p, err := s.Projects.GetByOwner(ctx, projectID, ownerID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.Tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, tasks, nil
}

// ProjectPatch is a partial update; absent fields are untouched.
type ProjectPatch struct {
	Title       optional.Field[string]
	Description optional.Field[string]
}

func (s *ProjectService) Update(ctx context.Context, ownerID, projectID string, patch ProjectPatch) (*entity.Project, error) {
	p, err := s.Projects.GetByOwner(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if patch.Title.IsSet() {
		title, ok := patch.Title.Get()
		if !ok || strings.TrimSpace(title) == "" {
			return nil, invalidField("title", "must not be empty")
		}
		p.Title = title
	}
	if patch.Description.IsSet() {
		p.Description = patch.Description.Value()
	}
	if err := s.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a scoped project; tasks go with it via the FK cascade.
func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID string) error {
	return s.Projects.DeleteByOwner(ctx, projectID, ownerID)
}
