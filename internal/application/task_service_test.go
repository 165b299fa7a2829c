package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devarta/taskboard/internal/domain/entity"
	repo "github.com/devarta/taskboard/internal/domain/repository"
	"github.com/devarta/taskboard/pkg/optional"
)

type taskFixture struct {
	users    *fakeUserRepo
	projects *fakeProjectRepo
	tasks    *fakeTaskRepo
	pub      *fakePublisher
	svc      *TaskService

	owner    *entity.User
	other    *entity.User
	assignee *entity.User
	project  *entity.Project
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	tasks := newFakeTaskRepo(projects)
	pub := &fakePublisher{}

	f := &taskFixture{
		users:    users,
		projects: projects,
		tasks:    tasks,
		pub:      pub,
		owner:    users.add("owner@example.com", "Owner"),
		other:    users.add("other@example.com", "Other"),
		assignee: users.add("assignee@example.com", "Assignee"),
	}
	f.project = projects.add(f.owner.ID, "Demo Project")

	notifier := NewNotifier(pub, nil, WarnCaller, true, true)
	f.svc = NewTaskService(tasks, projects, users, notifier, nil, nil, "")
	return f
}

func (f *taskFixture) createTask(t *testing.T, in CreateTaskInput) *entity.Task {
	t.Helper()
	task, _, err := f.svc.Create(context.Background(), f.owner.ID, in)
	require.NoError(t, err)
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	f := newTaskFixture(t)

	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "Write spec"})

	assert.Equal(t, entity.StatusTodo, task.Status)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	assert.Nil(t, task.AssignedUserID)
	assert.Empty(t, f.pub.jobs, "unassigned task must enqueue nothing")
}

func TestCreateTaskWithAssigneeEnqueuesOneJob(t *testing.T) {
	f := newTaskFixture(t)

	task, report, err := f.svc.Create(context.Background(), f.owner.ID, CreateTaskInput{
		ProjectID:      f.project.ID,
		Title:          "Write spec",
		AssignedUserID: &f.assignee.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusTodo, task.Status)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	require.NotNil(t, task.AssignedUserID)
	assert.Equal(t, f.assignee.ID, *task.AssignedUserID)

	assert.Equal(t, 1, report.Enqueued)
	require.Len(t, f.pub.jobs, 1)
	job := f.pub.jobs[0]
	assert.Equal(t, f.assignee.Email, job.To)
	assert.Equal(t, "You've been assigned a task", job.Subject)
	assert.Contains(t, job.Text, "Write spec")
}

func TestCreateTaskValidation(t *testing.T) {
	f := newTaskFixture(t)

	_, _, err := f.svc.Create(context.Background(), f.owner.ID, CreateTaskInput{ProjectID: f.project.ID, Title: "  "})
	assert.True(t, IsValidation(err), "empty title must be rejected")

	_, _, err = f.svc.Create(context.Background(), f.owner.ID, CreateTaskInput{ProjectID: f.project.ID, Title: "x", Status: "archived"})
	assert.True(t, IsValidation(err), "unknown status must be rejected")

	_, _, err = f.svc.Create(context.Background(), f.owner.ID, CreateTaskInput{ProjectID: f.project.ID, Title: "x", Priority: "urgent"})
	assert.True(t, IsValidation(err), "unknown priority must be rejected")

	ghost := uuid.NewString()
	_, _, err = f.svc.Create(context.Background(), f.owner.ID, CreateTaskInput{ProjectID: f.project.ID, Title: "x", AssignedUserID: &ghost})
	assert.True(t, IsValidation(err), "nonexistent assignee must be rejected")

	assert.Empty(t, f.pub.jobs, "rejected creates must not enqueue")
}

func TestCreateTaskInForeignProjectIsNotFound(t *testing.T) {
	f := newTaskFixture(t)
	foreign := f.projects.add(f.other.ID, "Someone else's project")

	_, _, err := f.svc.Create(context.Background(), f.owner.ID, CreateTaskInput{ProjectID: foreign.ID, Title: "intrusion"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskInvisibleToOtherUsers(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "secret"})

	_, err := f.svc.Get(context.Background(), f.other.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound, "404, never forbidden: existence is not disclosed")

	got, err := f.svc.Get(context.Background(), f.owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestUpdateStatusChangeNotifiesAssignee(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "Write spec", AssignedUserID: &f.assignee.ID})
	f.pub.jobs = nil

	updated, report, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		Status: optional.Of(entity.StatusDone),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, updated.Status)

	// Both independent triggers fire: status changed, and the generic
	// task-updated channel saw a status change with an assignee present.
	require.Equal(t, 2, report.Enqueued)
	require.Len(t, f.pub.jobs, 2)
	assert.Equal(t, "Task status updated", f.pub.jobs[0].Subject)
	assert.Contains(t, f.pub.jobs[0].Text, "done")
	assert.Equal(t, f.assignee.Email, f.pub.jobs[0].To)
	assert.Equal(t, "Task updated", f.pub.jobs[1].Subject)
	assert.Equal(t, f.assignee.Email, f.pub.jobs[1].To)
}

func TestUpdateStatusWithoutAssigneeIsSilent(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "solo"})

	_, report, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		Status: optional.Of(entity.StatusInProgress),
	})
	require.NoError(t, err)
	assert.Zero(t, report.Enqueued)
	assert.Empty(t, f.pub.jobs)
}

func TestUpdateSameStatusDoesNotNotify(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "Write spec", AssignedUserID: &f.assignee.ID})
	f.pub.jobs = nil

	_, report, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		Status: optional.Of(entity.StatusTodo), // unchanged
	})
	require.NoError(t, err)
	assert.Zero(t, report.Enqueued)
	assert.Empty(t, f.pub.jobs)
}

func TestUpdateAssignmentChangeNotifiesNewAssignee(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "handover"})

	_, report, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		AssignedUserID: optional.Of(f.assignee.ID),
	})
	require.NoError(t, err)

	// Assignment changed but status did not: only the generic channel fires.
	require.Equal(t, 1, report.Enqueued)
	require.Len(t, f.pub.jobs, 1)
	assert.Equal(t, "Task updated", f.pub.jobs[0].Subject)
	assert.Equal(t, f.assignee.Email, f.pub.jobs[0].To)
}

func TestUpdateUnassignIsSilent(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "handover", AssignedUserID: &f.assignee.ID})
	f.pub.jobs = nil

	updated, report, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		AssignedUserID: optional.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedUserID)
	assert.Zero(t, report.Enqueued, "no assignee left to notify")
}

func TestPartialPatchLeavesOtherFieldsUntouched(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{
		ProjectID:      f.project.ID,
		Title:          "Write spec",
		AssignedUserID: &f.assignee.ID,
	})

	updated, _, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		Priority: optional.Of(entity.PriorityHigh),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PriorityHigh, updated.Priority)
	assert.Equal(t, "Write spec", updated.Title)
	assert.Equal(t, entity.StatusTodo, updated.Status)
	require.NotNil(t, updated.AssignedUserID)
	assert.Equal(t, f.assignee.ID, *updated.AssignedUserID)
}

func TestUpdatePatchValidation(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "Write spec"})

	_, _, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{Title: optional.Null[string]()})
	assert.True(t, IsValidation(err), "title may not be nulled")

	_, _, err = f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{Status: optional.Null[entity.TaskStatus]()})
	assert.True(t, IsValidation(err), "status may not be nulled")

	ghost := uuid.NewString()
	_, _, err = f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{AssignedUserID: optional.Of(ghost)})
	assert.True(t, IsValidation(err), "nonexistent assignee must be rejected")
}

func TestUpdateClearDueDate(t *testing.T) {
	f := newTaskFixture(t)
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "dated", DueDate: &due})

	updated, _, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		DueDate: optional.Null[time.Time](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestDeleteTask(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "doomed", AssignedUserID: &f.assignee.ID})
	f.pub.jobs = nil

	require.NoError(t, f.svc.Delete(context.Background(), f.owner.ID, task.ID))

	_, err := f.svc.Get(context.Background(), f.owner.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.pub.jobs, "delete triggers zero notifications")

	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.owner.ID, task.ID), ErrNotFound)
}

func TestDeleteTaskScoped(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "keep out"})

	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.other.ID, task.ID), ErrNotFound)

	_, err := f.svc.Get(context.Background(), f.owner.ID, task.ID)
	assert.NoError(t, err, "foreign delete must not remove the task")
}

func TestListFilters(t *testing.T) {
	f := newTaskFixture(t)
	f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "a", Status: entity.StatusDone})
	f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "b", Priority: entity.PriorityHigh})
	f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "c"})

	done := entity.StatusDone
	got, err := f.svc.List(context.Background(), f.owner.ID, repo.TaskFilter{Status: &done})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)

	high := entity.PriorityHigh
	got, err = f.svc.List(context.Background(), f.owner.ID, repo.TaskFilter{Priority: &high})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Title)

	got, err = f.svc.List(context.Background(), f.other.ID, repo.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, got, "other users see nothing")
}

func TestUpdateQueueFailureWarnMode(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "Write spec", AssignedUserID: &f.assignee.ID})
	f.pub.failing = true

	updated, report, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		Status: optional.Of(entity.StatusDone),
	})
	require.NoError(t, err, "warn mode: mutation succeeds")
	assert.Equal(t, entity.StatusDone, updated.Status)
	assert.True(t, report.Degraded())
	assert.Equal(t, 2, report.Failed)
}

func TestUpdateQueueFailureFailMode(t *testing.T) {
	f := newTaskFixture(t)
	f.svc.Notifier = NewNotifier(f.pub, nil, FailRequest, true, true)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "Write spec", AssignedUserID: &f.assignee.ID})
	f.pub.failing = true

	_, _, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		Status: optional.Of(entity.StatusDone),
	})
	require.ErrorIs(t, err, ErrQueueUnavailable)

	// The record store write had already committed when the enqueue failed.
	got, gerr := f.svc.Get(context.Background(), f.owner.ID, task.ID)
	require.NoError(t, gerr)
	assert.Equal(t, entity.StatusDone, got.Status)
}

func TestNotificationTriggerToggles(t *testing.T) {
	f := newTaskFixture(t)
	f.svc.Notifier = NewNotifier(f.pub, nil, WarnCaller, false, true)
	task := f.createTask(t, CreateTaskInput{ProjectID: f.project.ID, Title: "Write spec", AssignedUserID: &f.assignee.ID})
	f.pub.jobs = nil

	_, _, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{Status: optional.Of(entity.StatusDone)})
	require.NoError(t, err)
	require.Len(t, f.pub.jobs, 1, "status-change channel disabled, generic channel still fires")
	assert.Equal(t, "Task updated", f.pub.jobs[0].Subject)

	f.svc.Notifier = NewNotifier(f.pub, nil, WarnCaller, true, false)
	f.pub.jobs = nil
	_, _, err = f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{Status: optional.Of(entity.StatusTodo)})
	require.NoError(t, err)
	require.Len(t, f.pub.jobs, 1, "generic channel disabled, status-change channel still fires")
	assert.Equal(t, "Task status updated", f.pub.jobs[0].Subject)
}

// End-to-end scenario from the product brief: create an assigned task,
// then mark it done.
func TestAssignThenCompleteScenario(t *testing.T) {
	f := newTaskFixture(t)

	task, _, err := f.svc.Create(context.Background(), f.owner.ID, CreateTaskInput{
		ProjectID:      f.project.ID,
		Title:          "Write spec",
		AssignedUserID: &f.assignee.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusTodo, task.Status)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	require.Len(t, f.pub.jobs, 1)
	assert.Equal(t, f.assignee.Email, f.pub.jobs[0].To)
	assert.Equal(t, "You've been assigned a task", f.pub.jobs[0].Subject)

	updated, _, err := f.svc.Update(context.Background(), f.owner.ID, task.ID, TaskPatch{
		Status: optional.Of(entity.StatusDone),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, updated.Status)

	var mentionsDone bool
	for _, job := range f.pub.jobs[1:] {
		if job.Subject == "Task status updated" {
			assert.Contains(t, job.Text, "done")
			mentionsDone = true
		}
	}
	assert.True(t, mentionsDone, "at least one notification names the new status")
}
