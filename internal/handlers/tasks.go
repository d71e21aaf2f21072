package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/services"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
	"github.com/taskdeck/taskdeck/pkg/metrics"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// TaskHandler exposes the ownership-scoped task CRUD operations. Every route
// sits behind the auth middleware, so a resolved user is always available.
type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) (*TaskHandler, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task handler: task service is required")
	}
	return &TaskHandler{tasks: tasks}, nil
}

func (h *TaskHandler) fail(c *gin.Context, operation string, err error) {
	metrics.TaskOperations.WithLabelValues(operation, "failure").Inc()
	response.Error(c, err)
}

func (h *TaskHandler) ok(operation string) {
	metrics.TaskOperations.WithLabelValues(operation, "success").Inc()
}

// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrTokenRequired)
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "list", err)
		return
	}

	h.ok("list")
	response.Success(c, http.StatusOK, tasks)
}

// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrTokenRequired)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, apperrors.ErrTaskNotFound)
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), user.ID, taskID)
	if err != nil {
		h.fail(c, "get", err)
		return
	}

	h.ok("get")
	response.Success(c, http.StatusOK, task)
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrTokenRequired)
		return
	}

	var req createTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), user.ID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	h.ok("create")
	response.Success(c, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrTokenRequired)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, apperrors.ErrTaskNotFound)
		return
	}

	var req updateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), user.ID, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, "update", err)
		return
	}

	h.ok("update")
	response.Success(c, http.StatusOK, task)
}

// POST /api/tasks/:id/done
func (h *TaskHandler) SetDone(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrTokenRequired)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, apperrors.ErrTaskNotFound)
		return
	}

	task, err := h.tasks.SetDone(c.Request.Context(), user.ID, taskID)
	if err != nil {
		h.fail(c, "set_done", err)
		return
	}

	h.ok("set_done")
	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("task %d has been marked as done", task.ID),
	})
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrTokenRequired)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		response.Error(c, apperrors.ErrTaskNotFound)
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), user.ID, taskID); err != nil {
		h.fail(c, "delete", err)
		return
	}

	h.ok("delete")
	c.Status(http.StatusNoContent)
}
