package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, id models.ID) (*models.Student, error)
	Create(ctx context.Context, patch models.Patch) (*models.Student, error)
	Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Student, error)
	Delete(ctx context.Context, id models.ID) error
}

type studentMover interface {
	MoveStudent(ctx context.Context, studentID models.ID, groupID *models.ID) (*models.Student, error)
}

// StudentHandler wires student services to HTTP routes.
type StudentHandler struct {
	students studentService
	groups   studentMover
}

// NewStudentHandler constructs a StudentHandler. Group moves are delegated to the group service.
func NewStudentHandler(students studentService, groups studentMover) *StudentHandler {
	return &StudentHandler{students: students, groups: groups}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param groupId query int false "Only members of this group"
// @Param status query string false "Exact status match"
// @Success 200 {array} models.Student
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{Status: strings.TrimSpace(c.Query("status"))}
	if raw := c.Query("groupId"); raw != "" {
		id, err := models.ParseID(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid groupId"))
			return
		}
		filter.GroupID = &id
	}
	students, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Success 201 {object} models.Student
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	patch, ok := bindPatch(c, "student")
	if !ok {
		return
	}
	student, err := h.students.Create(c.Request.Context(), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	patch, ok := bindPatch(c, "student")
	if !ok {
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 200 {object} response.MessageBody
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Student")
}

// AssignGroup godoc
// @Summary Move a student into a group, or out of any group with groupId null
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body models.AssignGroupRequest true "Target group"
// @Success 200 {object} models.Student
// @Router /students/{id}/group [put]
func (h *StudentHandler) AssignGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.AssignGroupRequest
	if !bindJSON(c, &req, "group assignment") {
		return
	}
	student, err := h.groups.MoveStudent(c.Request.Context(), id, req.GroupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}
