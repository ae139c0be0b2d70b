package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

type taskService interface {
	List(ctx context.Context) ([]models.TaskView, error)
	ListByGroup(ctx context.Context, groupID models.ID) ([]models.Task, error)
	Create(ctx context.Context, patch models.Patch) (*models.Task, error)
	Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Task, error)
	Delete(ctx context.Context, id models.ID) error
}

// TaskHandler wires task services to HTTP routes.
type TaskHandler struct {
	tasks taskService
}

// NewTaskHandler constructs a TaskHandler.
func NewTaskHandler(tasks taskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List godoc
// @Summary List tasks with group and teacher names
// @Tags Tasks
// @Produce json
// @Success 200 {array} models.TaskView
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tasks)
}

// ListByGroup godoc
// @Summary List tasks of a group
// @Tags Tasks
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} models.Task
// @Router /tasks/group/{id} [get]
func (h *TaskHandler) ListByGroup(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.tasks.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tasks)
}

// Create godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Success 201 {object} models.Task
// @Failure 403 {object} response.ErrorBody
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	patch, ok := bindPatch(c, "task")
	if !ok {
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Update godoc
// @Summary Update task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	patch, ok := bindPatch(c, "task")
	if !ok {
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, task)
}

// Delete godoc
// @Summary Delete task
// @Tags Tasks
// @Param id path int true "Task ID"
// @Success 200 {object} response.MessageBody
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Task")
}
