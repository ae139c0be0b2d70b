package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

type studentRepository interface {
	recordStore[models.Student]
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

type groupRepository interface {
	recordStore[models.Group]
}

// StudentService manages student records. Group membership changes go through
// GroupService; here membership is only set on creation and cleaned up on deletion.
type StudentService struct {
	base
	repo   studentRepository
	groups groupRepository
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, groups groupRepository, opts Options) *StudentService {
	return &StudentService{base: newBase(opts), repo: repo, groups: groups}
}

// List returns students matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to load students")
	}
	return students, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id models.ID) (*models.Student, error) {
	return findRecord[models.Student](ctx, s.repo, id, "student")
}

// Create registers a student. A groupId in the payload enrolls the student subject to
// the group's capacity.
func (s *StudentService) Create(ctx context.Context, patch models.Patch) (*models.Student, error) {
	var groupID *models.ID
	if _, err := takeField(patch, "groupId", &groupID); err != nil {
		return nil, err
	}
	delete(patch, "group")

	student, err := patchRecord(models.Student{ID: s.nextID()}, patch, "id", "paymentStatus")
	if err != nil {
		return nil, err
	}
	if err := s.validate(student, "student"); err != nil {
		return nil, err
	}
	student.SettleStatus()

	release := s.locks.Lock(s.repo.Name(), s.groups.Name())
	defer release()

	students, err := listRecords[models.Student](ctx, s.repo)
	if err != nil {
		return nil, err
	}

	if groupID != nil {
		groups, err := listRecords[models.Group](ctx, s.groups)
		if err != nil {
			return nil, err
		}
		group := findGroup(groups, *groupID)
		if group == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		if group.Full(len(rosterOf(group.ID, students))) {
			return nil, appErrors.ErrCapacityExceeded
		}
		student.Assign(*group)
		students = append(students, student)
		if err := s.repo.SaveAll(ctx, students); err != nil {
			return nil, internalError(err, "failed to create student")
		}
		if syncRosters(groups, students) {
			if err := s.groups.SaveAll(ctx, groups); err != nil {
				return nil, internalError(err, "failed to update group rosters")
			}
		}
	} else {
		if err := s.repo.SaveAll(ctx, append(students, student)); err != nil {
			return nil, internalError(err, "failed to create student")
		}
	}

	s.logger.Info("student created", zap.Int64("student_id", int64(student.ID)))
	return &student, nil
}

// Update merges patch into a student. Group membership cannot be changed here and the
// payment status always follows the balance.
func (s *StudentService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Student, error) {
	release := s.locks.Lock(s.repo.Name())
	defer release()

	current, err := findRecord[models.Student](ctx, s.repo, id, "student")
	if err != nil {
		return nil, err
	}
	student, err := patchRecord(*current, patch, "id", "groupId", "group", "paymentStatus")
	if err != nil {
		return nil, err
	}
	if err := s.validate(student, "student"); err != nil {
		return nil, err
	}
	student.SettleStatus()
	if err := s.repo.Replace(ctx, student); err != nil {
		return nil, internalError(err, "failed to update student")
	}
	return &student, nil
}

// Delete removes a student and drops it from any stored roster.
func (s *StudentService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name(), s.groups.Name())
	defer release()

	if _, err := deleteRecord[models.Student](ctx, s.repo, id, "student"); err != nil {
		return err
	}
	students, err := listRecords[models.Student](ctx, s.repo)
	if err != nil {
		return err
	}
	groups, err := listRecords[models.Group](ctx, s.groups)
	if err != nil {
		return err
	}
	if syncRosters(groups, students) {
		if err := s.groups.SaveAll(ctx, groups); err != nil {
			return internalError(err, "failed to update group rosters")
		}
	}
	s.logger.Info("student deleted", zap.Int64("student_id", int64(id)))
	return nil
}

func findGroup(groups []models.Group, id models.ID) *models.Group {
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i]
		}
	}
	return nil
}

func findStudent(students []models.Student, id models.ID) *models.Student {
	for i := range students {
		if students[i].ID == id {
			return &students[i]
		}
	}
	return nil
}
