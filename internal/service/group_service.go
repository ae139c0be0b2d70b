package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

type groupTeacherReader interface {
	Name() string
	All(ctx context.Context) ([]models.Teacher, error)
}

// RosterObserver counts membership changes. *MetricsService implements it.
type RosterObserver interface {
	RecordRosterChange(operation string)
}

// Roster operations reported to the RosterObserver.
const (
	RosterAdd    = "add"
	RosterRemove = "remove"
	RosterMove   = "move"
	RosterCreate = "create"
)

// GroupService owns groups and every change of group membership. Student.groupId is
// the source of truth; stored rosters are rewritten from it after each change.
type GroupService struct {
	base
	repo     groupRepository
	students studentRepository
	teachers groupTeacherReader
	observer RosterObserver
}

// NewGroupService constructs a GroupService. The observer is optional.
func NewGroupService(repo groupRepository, students studentRepository, teachers groupTeacherReader, observer RosterObserver, opts Options) *GroupService {
	return &GroupService{base: newBase(opts), repo: repo, students: students, teachers: teachers, observer: observer}
}

// List returns every group with its derived roster and teacher name.
func (s *GroupService) List(ctx context.Context) ([]models.GroupView, error) {
	groups, teachers, students, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveGroups(groups, teachers, students), nil
}

// Get returns a group with its teacher and member records.
func (s *GroupService) Get(ctx context.Context, id models.ID) (*models.GroupDetail, error) {
	groups, teachers, students, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	group := findGroup(groups, id)
	if group == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
	}
	detail := ResolveGroupDetail(*group, teachers, students)
	return &detail, nil
}

func (s *GroupService) snapshot(ctx context.Context) ([]models.Group, []models.Teacher, []models.Student, error) {
	groups, err := listRecords[models.Group](ctx, s.repo)
	if err != nil {
		return nil, nil, nil, err
	}
	teachers, err := s.teachers.All(ctx)
	if err != nil {
		return nil, nil, nil, internalError(err, "failed to load teachers")
	}
	students, err := listRecords[models.Student](ctx, s.students)
	if err != nil {
		return nil, nil, nil, err
	}
	return groups, teachers, students, nil
}

// Create registers a group. Listed studentIds that exist are enrolled at once; unknown
// ids are ignored.
func (s *GroupService) Create(ctx context.Context, patch models.Patch) (*models.Group, error) {
	var studentIDs []models.ID
	if _, err := takeField(patch, "studentIds", &studentIDs); err != nil {
		return nil, err
	}

	group, err := patchRecord(models.Group{
		ID:       s.nextID(),
		Capacity: models.DefaultGroupCapacity,
		Status:   models.GroupStatusUpcoming,
	}, patch, "id", "students", "studentsCount")
	if err != nil {
		return nil, err
	}
	if err := s.validate(group, "group"); err != nil {
		return nil, err
	}

	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	groups, err := listRecords[models.Group](ctx, s.repo)
	if err != nil {
		return nil, err
	}
	students, err := listRecords[models.Student](ctx, s.students)
	if err != nil {
		return nil, err
	}

	enrolled := 0
	seen := make(map[models.ID]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		student := findStudent(students, id)
		if student == nil {
			continue
		}
		if group.Full(enrolled) {
			return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "initial roster exceeds group capacity")
		}
		student.Assign(group)
		enrolled++
	}

	groups = append(groups, group)
	syncRosters(groups, students)
	if enrolled > 0 {
		if err := s.students.SaveAll(ctx, students); err != nil {
			return nil, internalError(err, "failed to enroll students")
		}
	}
	if err := s.repo.SaveAll(ctx, groups); err != nil {
		return nil, internalError(err, "failed to create group")
	}

	created := groups[len(groups)-1]
	s.recordChange(RosterCreate)
	s.logger.Info("group created",
		zap.Int64("group_id", int64(created.ID)),
		zap.Int("students", created.StudentsCount),
	)
	return &created, nil
}

// Update merges patch into a group. A rename is copied onto member students; the
// capacity may not drop below the current roster.
func (s *GroupService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Group, error) {
	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	groups, err := listRecords[models.Group](ctx, s.repo)
	if err != nil {
		return nil, err
	}
	current := findGroup(groups, id)
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
	}
	updated, err := patchRecord(*current, patch, "id", "students", "studentsCount")
	if err != nil {
		return nil, err
	}
	if err := s.validate(updated, "group"); err != nil {
		return nil, err
	}

	students, err := listRecords[models.Student](ctx, s.students)
	if err != nil {
		return nil, err
	}
	roster := rosterOf(id, students)
	if int(updated.Capacity) < len(roster) {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "capacity is lower than the number of enrolled students")
	}

	if updated.Name != current.Name && len(roster) > 0 {
		for i := range students {
			if students[i].InGroup(id) {
				students[i].Assign(updated)
			}
		}
		if err := s.students.SaveAll(ctx, students); err != nil {
			return nil, internalError(err, "failed to rename group on students")
		}
	}

	*current = updated
	current.SetRoster(roster)
	if err := s.repo.SaveAll(ctx, groups); err != nil {
		return nil, internalError(err, "failed to update group")
	}
	result := *current
	return &result, nil
}

// Delete removes a group and releases its students.
func (s *GroupService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	if _, err := deleteRecord[models.Group](ctx, s.repo, id, "group"); err != nil {
		return err
	}
	students, err := listRecords[models.Student](ctx, s.students)
	if err != nil {
		return err
	}
	released := 0
	for i := range students {
		if students[i].InGroup(id) {
			students[i].Unassign()
			released++
		}
	}
	if released > 0 {
		if err := s.students.SaveAll(ctx, students); err != nil {
			return internalError(err, "failed to release group students")
		}
	}
	s.logger.Info("group deleted", zap.Int64("group_id", int64(id)), zap.Int("released_students", released))
	return nil
}

// AddStudent enrolls a student in a group. Checks run in order: group exists, student
// not already a member, free seat, student exists.
func (s *GroupService) AddStudent(ctx context.Context, groupID, studentID models.ID) (*models.MembershipResult, error) {
	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	groups, teachers, students, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	group := findGroup(groups, groupID)
	if group == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
	}
	roster := rosterOf(groupID, students)
	if containsID(roster, studentID) {
		return nil, appErrors.ErrAlreadyInGroup
	}
	if group.Full(len(roster)) {
		return nil, appErrors.ErrCapacityExceeded
	}
	student := findStudent(students, studentID)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	previous := student.GroupID
	student.Assign(*group)
	if err := s.commitMembership(ctx, groups, students); err != nil {
		return nil, err
	}

	s.recordChange(RosterAdd)
	fields := []zap.Field{zap.Int64("group_id", int64(groupID)), zap.Int64("student_id", int64(studentID))}
	if previous != nil {
		fields = append(fields, zap.Int64("previous_group_id", int64(*previous)))
	}
	s.logger.Info("student added to group", fields...)

	return &models.MembershipResult{
		Message: "Student added to group",
		Group:   resolveGroup(*group, teacherIndex(teachers), students),
	}, nil
}

// RemoveStudent takes a student out of a group.
func (s *GroupService) RemoveStudent(ctx context.Context, groupID, studentID models.ID) (*models.MembershipResult, error) {
	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	groups, teachers, students, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	group := findGroup(groups, groupID)
	if group == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
	}
	student := findStudent(students, studentID)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if !student.InGroup(groupID) {
		return nil, appErrors.ErrNotInGroup
	}

	student.Unassign()
	if err := s.commitMembership(ctx, groups, students); err != nil {
		return nil, err
	}

	s.recordChange(RosterRemove)
	s.logger.Info("student removed from group", zap.Int64("group_id", int64(groupID)), zap.Int64("student_id", int64(studentID)))

	return &models.MembershipResult{
		Message: "Student removed from group",
		Group:   resolveGroup(*group, teacherIndex(teachers), students),
	}, nil
}

// MoveStudent puts a student into groupID, or out of any group when groupID is nil.
func (s *GroupService) MoveStudent(ctx context.Context, studentID models.ID, groupID *models.ID) (*models.Student, error) {
	release := s.locks.Lock(s.repo.Name(), s.students.Name())
	defer release()

	groups, err := listRecords[models.Group](ctx, s.repo)
	if err != nil {
		return nil, err
	}
	students, err := listRecords[models.Student](ctx, s.students)
	if err != nil {
		return nil, err
	}
	student := findStudent(students, studentID)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	if groupID == nil {
		if student.GroupID == nil {
			result := *student
			return &result, nil
		}
		student.Unassign()
	} else {
		group := findGroup(groups, *groupID)
		if group == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		if student.InGroup(*groupID) {
			return nil, appErrors.ErrAlreadyInGroup
		}
		if group.Full(len(rosterOf(*groupID, students))) {
			return nil, appErrors.ErrCapacityExceeded
		}
		student.Assign(*group)
	}

	result := *student
	if err := s.commitMembership(ctx, groups, students); err != nil {
		return nil, err
	}
	s.recordChange(RosterMove)
	s.logger.Info("student moved", zap.Int64("student_id", int64(studentID)), zap.Any("group_id", groupID))
	return &result, nil
}

// commitMembership persists students, then every roster that changed.
func (s *GroupService) commitMembership(ctx context.Context, groups []models.Group, students []models.Student) error {
	if err := s.students.SaveAll(ctx, students); err != nil {
		return internalError(err, "failed to update students")
	}
	if syncRosters(groups, students) {
		if err := s.repo.SaveAll(ctx, groups); err != nil {
			return internalError(err, "failed to update group rosters")
		}
	}
	return nil
}

func (s *GroupService) recordChange(op string) {
	if s.observer != nil {
		s.observer.RecordRosterChange(op)
	}
}

func containsID(ids []models.ID, id models.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
