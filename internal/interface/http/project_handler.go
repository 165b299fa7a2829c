package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/internal/domain/entity"
	"github.com/devarta/taskboard/internal/interface/middleware"
	"github.com/devarta/taskboard/pkg/optional"
	"github.com/devarta/taskboard/pkg/response"
	"github.com/devarta/taskboard/pkg/validation"
)

type ProjectHandler struct {
	Svc    *application.ProjectService
	Logger *logrus.Logger
}

func NewProjectHandler(svc *application.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Svc: svc, Logger: logger}
}

type createProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type projectView struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tasks       []taskView `json:"tasks,omitempty"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

func viewProject(p *entity.Project, tasks []*entity.Task) projectView {
	v := projectView{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if tasks != nil {
		v.Tasks = viewTasks(tasks)
	}
	return v
}

// Create POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, viewProject(p, nil), "project created", nil)
}

// List GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.Svc.List(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, viewProject(p, nil))
	}
	response.Success(c, http.StatusOK, out, "projects", nil)
}

// Get GET /api/projects/:id returns the project together with its tasks.
func (h *ProjectHandler) Get(c *gin.Context) {
	p, tasks, err := h.Svc.Get(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewProject(p, tasks), "project", nil)
}

type updateProjectRequest struct {
	Title       optional.Field[string] `json:"title"`
	Description optional.Field[string] `json:"description"`
}

// Update PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), application.ProjectPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewProject(p, nil), "project updated", nil)
}

// Delete DELETE /api/projects/:id removes the project; tasks go with it
// via the FK cascade.
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "project deleted", nil)
}
