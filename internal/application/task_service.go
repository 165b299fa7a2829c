package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/internal/domain/entity"
	repo "github.com/devarta/taskboard/internal/domain/repository"
	"github.com/devarta/taskboard/pkg/optional"
)

// TaskService is the task mutation engine. All reads and writes go through
// owner-scoped repository queries, and state transitions decide which
// notification jobs to hand to the queue. Enqueue is on the request's
// critical path but delivery is not.
type TaskService struct {
	Tasks    repo.TaskRepository
	Projects repo.ProjectRepository
	Users    repo.UserRepository
	Notifier *Notifier
	Logger   *logrus.Logger

	ES           *elasticsearch.Client
	ESTasksIndex string
}

func NewTaskService(tasks repo.TaskRepository, projects repo.ProjectRepository, users repo.UserRepository, notifier *Notifier, logger *logrus.Logger, es *elasticsearch.Client, esTasksIndex string) *TaskService {
	return &TaskService{
		Tasks:        tasks,
		Projects:     projects,
		Users:        users,
		Notifier:     notifier,
		Logger:       logger,
		ES:           es,
		ESTasksIndex: esTasksIndex,
	}
}

// CreateTaskInput carries the fields of a new task. Status and Priority
// default to todo/medium when empty.
type CreateTaskInput struct {
	ProjectID      string
	Title          string
	Description    string
	Status         entity.TaskStatus
	Priority       entity.TaskPriority
	DueDate        *time.Time
	AssignedUserID *string
}

// Create persists a new task under a project owned by ownerID and, when an
// assignee is set, enqueues exactly one assignment notification. Assigning
// a nonexistent user is a validation error rather than a silently persisted
// dangling reference.
func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*entity.Task, NotifyReport, error) {
	var report NotifyReport

	if strings.TrimSpace(in.Title) == "" {
		return nil, report, invalidField("title", "must not be empty")
	}
	if in.Status == "" {
		in.Status = entity.StatusTodo
	}
	if !in.Status.Valid() {
		return nil, report, invalidField("status", "must be one of todo, in_progress, done")
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, report, invalidField("priority", "must be one of low, medium, high")
	}

	if _, err := s.Projects.GetByOwner(ctx, in.ProjectID, ownerID); err != nil {
		return nil, report, err
	}

	var assignee *entity.User
	if in.AssignedUserID != nil && *in.AssignedUserID != "" {
		u, err := s.Users.GetByID(ctx, *in.AssignedUserID)
		if err != nil {
			return nil, report, invalidField("assigned_user_id", "no such user")
		}
		assignee = u
	} else {
		in.AssignedUserID = nil
	}

	t := &entity.Task{
		ProjectID:      in.ProjectID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		DueDate:        in.DueDate,
		AssignedUserID: in.AssignedUserID,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, report, err
	}

	if assignee != nil {
		if err := s.Notifier.TaskAssigned(ctx, &report, assignee.Email, t.Title); err != nil {
			return t, report, err
		}
	}

	s.indexTask(ctx, ownerID, t)
	return t, report, nil
}

// TaskPatch is a partial update. Absent fields are left untouched; a null
// DueDate or AssignedUserID clears the value. Title, Status and Priority
// may not be null.
type TaskPatch struct {
	Title          optional.Field[string]
	Description    optional.Field[string]
	Status         optional.Field[entity.TaskStatus]
	Priority       optional.Field[entity.TaskPriority]
	DueDate        optional.Field[time.Time]
	AssignedUserID optional.Field[string]
}

// Update applies a partial patch to a scoped task and evaluates two
// independent notification triggers against the pre-patch snapshot:
// a status-change email, and a generic task-updated email fired when the
// assignment or status changed. Both address the post-patch assignee and
// both may fire from one update.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch TaskPatch) (*entity.Task, NotifyReport, error) {
	var report NotifyReport

	t, err := s.Tasks.GetScoped(ctx, taskID, ownerID)
	if err != nil {
		return nil, report, err
	}

	originalStatus := t.Status
	originalAssignee := ""
	if t.AssignedUserID != nil {
		originalAssignee = *t.AssignedUserID
	}

	if err := s.applyPatch(ctx, t, patch); err != nil {
		return nil, report, err
	}

	if err := s.Tasks.Update(ctx, t); err != nil {
		return nil, report, err
	}

	newAssignee := ""
	if t.AssignedUserID != nil {
		newAssignee = *t.AssignedUserID
	}
	statusChanged := t.Status != originalStatus
	assignmentChanged := newAssignee != originalAssignee

	if (statusChanged || assignmentChanged) && t.Assigned() {
		u, uerr := s.Users.GetByID(ctx, *t.AssignedUserID)
		if uerr == nil {
			if statusChanged {
				if err := s.Notifier.StatusUpdated(ctx, &report, u.Email, t.Title, string(t.Status)); err != nil {
					return t, report, err
				}
			}
			if err := s.Notifier.TaskUpdated(ctx, &report, u.Email, t.Title); err != nil {
				return t, report, err
			}
		} else if s.Logger != nil {
			s.Logger.WithError(uerr).WithField("task_id", t.ID).Warn("assignee lookup failed, skipping notifications")
		}
	}

	s.indexTask(ctx, ownerID, t)
	return t, report, nil
}

func (s *TaskService) applyPatch(ctx context.Context, t *entity.Task, patch TaskPatch) error {
	if patch.Title.IsSet() {
		title, ok := patch.Title.Get()
		if !ok || strings.TrimSpace(title) == "" {
			return invalidField("title", "must not be empty")
		}
		t.Title = title
	}
	if patch.Description.IsSet() {
		t.Description = patch.Description.Value()
	}
	if patch.Status.IsSet() {
		status, ok := patch.Status.Get()
		if !ok || !status.Valid() {
			return invalidField("status", "must be one of todo, in_progress, done")
		}
		t.Status = status
	}
	if patch.Priority.IsSet() {
		priority, ok := patch.Priority.Get()
		if !ok || !priority.Valid() {
			return invalidField("priority", "must be one of low, medium, high")
		}
		t.Priority = priority
	}
	if patch.DueDate.IsSet() {
		if due, ok := patch.DueDate.Get(); ok {
			t.DueDate = &due
		} else {
			t.DueDate = nil
		}
	}
	if patch.AssignedUserID.IsSet() {
		if uid, ok := patch.AssignedUserID.Get(); ok && uid != "" {
			if _, err := s.Users.GetByID(ctx, uid); err != nil {
				return invalidField("assigned_user_id", "no such user")
			}
			t.AssignedUserID = &uid
		} else {
			t.AssignedUserID = nil
		}
	}
	return nil
}

// Get returns a task only when its project belongs to ownerID.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*entity.Task, error) {
	return s.Tasks.GetScoped(ctx, taskID, ownerID)
}

// List returns the owner's tasks under conjunctive filters with
// limit/offset pagination (defaults 10/0 applied in the repository).
func (s *TaskService) List(ctx context.Context, ownerID string, f repo.TaskFilter) ([]*entity.Task, error) {
	return s.Tasks.ListScoped(ctx, ownerID, f)
}

// Delete removes a scoped task. No notification is emitted.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.Tasks.DeleteScoped(ctx, taskID, ownerID); err != nil {
		return err
	}
	s.deindexTask(ctx, taskID)
	return nil
}

// indexTask mirrors the task into Elasticsearch for search. Failures are
// logged and swallowed: search is best-effort, persistence is not.
func (s *TaskService) indexTask(ctx context.Context, ownerID string, t *entity.Task) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"project_id":  t.ProjectID,
		"owner_id":    ownerID,
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    string(t.Priority),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESTasksIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("task_id", t.ID).Warn("es index response error")
	}
}

func (s *TaskService) deindexTask(ctx context.Context, taskID string) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESTasksIndex, DocumentID: taskID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", taskID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a full-text query over the owner's indexed tasks.
func (s *TaskService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner_id": ownerID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESTasksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
