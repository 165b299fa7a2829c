package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/devarta/taskboard/internal/domain/entity"
	repo "github.com/devarta/taskboard/internal/domain/repository"
	"github.com/devarta/taskboard/pkg/mailer"
)

// In-memory fakes used across the service tests.

type fakeUserRepo struct {
	users map[string]*entity.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) add(email, name string) *entity.User {
	u := &entity.User{ID: uuid.NewString(), Email: email, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

type fakeProjectRepo struct {
	projects map[string]*entity.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*entity.Project{}}
}

func (r *fakeProjectRepo) add(ownerID, title string) *entity.Project {
	p := &entity.Project{ID: uuid.NewString(), OwnerID: ownerID, Title: title, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.projects[p.ID] = p
	return p
}

func (r *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.projects[p.ID] = p
	return nil
}

func (r *fakeProjectRepo) GetByOwner(_ context.Context, id, ownerID string) (*entity.Project, error) {
	if p, ok := r.projects[id]; ok && p.OwnerID == ownerID {
		return p, nil
	}
	return nil, ErrNotFound
}

func (r *fakeProjectRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *entity.Project) error {
	if existing, ok := r.projects[p.ID]; !ok || existing.OwnerID != p.OwnerID {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.projects[p.ID] = p
	return nil
}

func (r *fakeProjectRepo) DeleteByOwner(_ context.Context, id, ownerID string) error {
	if p, ok := r.projects[id]; ok && p.OwnerID == ownerID {
		delete(r.projects, id)
		return nil
	}
	return ErrNotFound
}

type fakeTaskRepo struct {
	tasks    map[string]*entity.Task
	projects *fakeProjectRepo
}

func newFakeTaskRepo(projects *fakeProjectRepo) *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*entity.Task{}, projects: projects}
}

func (r *fakeTaskRepo) ownerOf(t *entity.Task) string {
	if p, ok := r.projects.projects[t.ProjectID]; ok {
		return p.OwnerID
	}
	return ""
}

func (r *fakeTaskRepo) Create(_ context.Context, t *entity.Task) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetScoped(_ context.Context, id, ownerID string) (*entity.Task, error) {
	if t, ok := r.tasks[id]; ok && r.ownerOf(t) == ownerID {
		cp := *t
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *fakeTaskRepo) ListScoped(_ context.Context, ownerID string, f repo.TaskFilter) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, t := range r.tasks {
		if r.ownerOf(t) != ownerID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if f.ProjectID != nil && t.ProjectID != *f.ProjectID {
			continue
		}
		if f.DueDate != nil && (t.DueDate == nil || !t.DueDate.Equal(*f.DueDate)) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTaskRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *entity.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) DeleteScoped(_ context.Context, id, ownerID string) error {
	if t, ok := r.tasks[id]; ok && r.ownerOf(t) == ownerID {
		delete(r.tasks, id)
		return nil
	}
	return ErrNotFound
}

var errQueueDown = errors.New("broker unreachable")

type fakePublisher struct {
	jobs    []mailer.EmailJob
	failing bool
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.failing {
		return errQueueDown
	}
	job, ok := body.(mailer.EmailJob)
	if !ok {
		return errors.New("unexpected payload type")
	}
	p.jobs = append(p.jobs, job)
	return nil
}

var (
	_ repo.UserRepository    = (*fakeUserRepo)(nil)
	_ repo.ProjectRepository = (*fakeProjectRepo)(nil)
	_ repo.TaskRepository    = (*fakeTaskRepo)(nil)
	_ QueuePublisher         = (*fakePublisher)(nil)
)
