package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

type groupService interface {
	List(ctx context.Context) ([]models.GroupView, error)
	Get(ctx context.Context, id models.ID) (*models.GroupDetail, error)
	Create(ctx context.Context, patch models.Patch) (*models.Group, error)
	Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Group, error)
	Delete(ctx context.Context, id models.ID) error
	AddStudent(ctx context.Context, groupID, studentID models.ID) (*models.MembershipResult, error)
	RemoveStudent(ctx context.Context, groupID, studentID models.ID) (*models.MembershipResult, error)
	studentMover
}

// GroupHandler wires group and roster operations to HTTP routes.
type GroupHandler struct {
	groups groupService
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups groupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// List godoc
// @Summary List groups with roster and teacher name
// @Tags Groups
// @Produce json
// @Success 200 {array} models.GroupView
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, groups)
}

// Get godoc
// @Summary Get group with teacher and students
// @Tags Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.GroupDetail
// @Failure 404 {object} response.ErrorBody
// @Router /groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	group, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// Create godoc
// @Summary Create group
// @Tags Groups
// @Accept json
// @Produce json
// @Success 201 {object} models.Group
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	patch, ok := bindPatch(c, "group")
	if !ok {
		return
	}
	group, err := h.groups.Create(c.Request.Context(), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Router /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	patch, ok := bindPatch(c, "group")
	if !ok {
		return
	}
	group, err := h.groups.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// Delete godoc
// @Summary Delete group
// @Tags Groups
// @Param id path int true "Group ID"
// @Success 200 {object} response.MessageBody
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Group")
}

// AddStudent godoc
// @Summary Add a student to a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param payload body models.MembershipRequest true "Student"
// @Success 200 {object} models.MembershipResult
// @Failure 400 {object} response.ErrorBody
// @Router /groups/{id}/add-student [put]
func (h *GroupHandler) AddStudent(c *gin.Context) {
	h.membership(c, h.groups.AddStudent)
}

// RemoveStudent godoc
// @Summary Remove a student from a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param payload body models.MembershipRequest true "Student"
// @Success 200 {object} models.MembershipResult
// @Failure 400 {object} response.ErrorBody
// @Router /groups/{id}/remove-student [put]
func (h *GroupHandler) RemoveStudent(c *gin.Context) {
	h.membership(c, h.groups.RemoveStudent)
}

func (h *GroupHandler) membership(c *gin.Context, change func(ctx context.Context, groupID, studentID models.ID) (*models.MembershipResult, error)) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.MembershipRequest
	if !bindJSON(c, &req, "membership") {
		return
	}
	if req.StudentID == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId is required"))
		return
	}
	result, err := change(c.Request.Context(), groupID, req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
