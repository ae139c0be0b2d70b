package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
	"github.com/noah-isme/tutor-center-api/pkg/idgen"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

var fixedNow = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store     *store.Store
	teachers  *repository.TeacherRepository
	students  *repository.StudentRepository
	groups    *repository.GroupRepository
	payments  *repository.PaymentRepository
	tasks     *repository.TaskRepository
	companies *repository.CompanyRepository
	branches  *repository.BranchRepository
	users     *repository.UserRepository
	metrics   *MetricsService
	opts      Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	metrics := NewMetricsService()
	s := store.New(store.NewMemoryDriver(), nil, metrics)
	return &fixture{
		store:     s,
		teachers:  repository.NewTeacherRepository(s),
		students:  repository.NewStudentRepository(s),
		groups:    repository.NewGroupRepository(s),
		payments:  repository.NewPaymentRepository(s),
		tasks:     repository.NewTaskRepository(s),
		companies: repository.NewCompanyRepository(s),
		branches:  repository.NewBranchRepository(s),
		users:     repository.NewUserRepository(s),
		metrics:   metrics,
		opts: Options{
			Locker: s,
			IDs:    idgen.NewSequence(1000),
			Clock:  func() time.Time { return fixedNow },
		},
	}
}

func (f *fixture) teacherService() *TeacherService {
	return NewTeacherService(f.teachers, f.opts)
}

func (f *fixture) studentService() *StudentService {
	return NewStudentService(f.students, f.groups, f.opts)
}

func (f *fixture) groupService() *GroupService {
	return NewGroupService(f.groups, f.students, f.teachers, f.metrics, f.opts)
}

func (f *fixture) paymentService() *PaymentService {
	return NewPaymentService(f.payments, f.students, f.opts)
}

func (f *fixture) taskService() *TaskService {
	return NewTaskService(f.tasks, f.groups, f.teachers, f.opts)
}

func (f *fixture) companyService() *CompanyService {
	return NewCompanyService(f.companies, f.branches, f.opts)
}

func (f *fixture) branchService() *BranchService {
	stats := NewStatsService(f.students, f.teachers, f.groups, f.payments)
	return NewBranchService(f.branches, f.companies, f.users, stats, f.opts)
}

func (f *fixture) authService() *AuthService {
	return NewAuthService(f.users, f.students, f.teachers, AuthConfig{AccessTokenSecret: "test-secret", Issuer: "test"}, f.opts)
}

func (f *fixture) userService() *UserService {
	return NewUserService(f.users, f.opts)
}

func patchOf(t *testing.T, v interface{}) models.Patch {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var patch models.Patch
	require.NoError(t, json.Unmarshal(raw, &patch))
	return patch
}

type obj map[string]interface{}

func mustCreateTeacher(t *testing.T, f *fixture, name string) models.Teacher {
	t.Helper()
	teacher, err := f.teacherService().Create(context.Background(), patchOf(t, obj{"name": name, "phone": "+99890" + name}))
	require.NoError(t, err)
	return *teacher
}

func mustCreateStudent(t *testing.T, f *fixture, fields obj) models.Student {
	t.Helper()
	student, err := f.studentService().Create(context.Background(), patchOf(t, fields))
	require.NoError(t, err)
	return *student
}

func mustCreateGroup(t *testing.T, f *fixture, fields obj) models.Group {
	t.Helper()
	group, err := f.groupService().Create(context.Background(), patchOf(t, fields))
	require.NoError(t, err)
	return *group
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	return appErrors.FromError(err).Code
}

func errorStatus(err error) int {
	if err == nil {
		return 0
	}
	return appErrors.FromError(err).Status
}
