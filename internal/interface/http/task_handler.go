package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/internal/domain/entity"
	repo "github.com/devarta/taskboard/internal/domain/repository"
	"github.com/devarta/taskboard/internal/interface/middleware"
	"github.com/devarta/taskboard/pkg/optional"
	"github.com/devarta/taskboard/pkg/response"
	"github.com/devarta/taskboard/pkg/validation"
)

const dateLayout = "2006-01-02"

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	ProjectID      string  `json:"project_id" binding:"required,uuid"`
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	Status         string  `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority       string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate        *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	AssignedUserID *string `json:"assigned_user_id" binding:"omitempty,uuid"`
}

type taskView struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"project_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	DueDate        *string `json:"due_date"`
	AssignedUserID *string `json:"assigned_user_id"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func viewTask(t *entity.Task) taskView {
	v := taskView{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		AssignedUserID: t.AssignedUserID,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(dateLayout)
		v.DueDate = &d
	}
	return v
}

func viewTasks(tasks []*entity.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, viewTask(t))
	}
	return out
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.CreateTaskInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         entity.TaskStatus(req.Status),
		Priority:       entity.TaskPriority(req.Priority),
		AssignedUserID: req.AssignedUserID,
	}
	if req.DueDate != nil {
		due, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"due_date": "must match datetime format: " + dateLayout})
			return
		}
		in.DueDate = &due
	}

	t, report, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, viewTask(t), "task created", notifyMeta(report))
}

type updateTaskRequest struct {
	Title          optional.Field[string]              `json:"title"`
	Description    optional.Field[string]              `json:"description"`
	Status         optional.Field[entity.TaskStatus]   `json:"status"`
	Priority       optional.Field[entity.TaskPriority] `json:"priority"`
	DueDate        optional.Field[string]              `json:"due_date"`
	AssignedUserID optional.Field[string]              `json:"assigned_user_id"`
}

// Update PATCH /api/tasks/:id applies a partial update; absent fields are
// left untouched.
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	patch := application.TaskPatch{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		AssignedUserID: req.AssignedUserID,
	}
	if req.DueDate.IsSet() {
		if raw, ok := req.DueDate.Get(); ok {
			due, err := time.Parse(dateLayout, raw)
			if err != nil {
				response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"due_date": "must match datetime format: " + dateLayout})
				return
			}
			patch.DueDate = optional.Of(due)
		} else {
			patch.DueDate = optional.Null[time.Time]()
		}
	}

	t, report, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), patch)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewTask(t), "task updated", notifyMeta(report))
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewTask(t), "task", nil)
}

// List GET /api/tasks with conjunctive filters, optional sort, pagination.
func (h *TaskHandler) List(c *gin.Context) {
	var f repo.TaskFilter

	if v := c.Query("status"); v != "" {
		status := entity.TaskStatus(v)
		if !status.Valid() {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"status": "must be one of todo, in_progress, done"})
			return
		}
		f.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := entity.TaskPriority(v)
		if !priority.Valid() {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"priority": "must be one of low, medium, high"})
			return
		}
		f.Priority = &priority
	}
	if v := c.Query("due_date"); v != "" {
		due, err := time.Parse(dateLayout, v)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"due_date": "must match datetime format: " + dateLayout})
			return
		}
		f.DueDate = &due
	}
	if v := c.Query("project_id"); v != "" {
		f.ProjectID = &v
	}
	if v := c.Query("sort_by"); v != "" {
		if v != "priority" && v != "due_date" {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"sort_by": "must be one of: priority, due_date"})
			return
		}
		f.SortBy = v
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	tasks, err := h.Svc.List(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), f)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewTasks(tasks), "tasks", map[string]any{"limit": f.Limit, "offset": f.Offset})
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "task deleted", nil)
}

// Search GET /api/tasks/search?q=...&size=...
func (h *TaskHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), q, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
