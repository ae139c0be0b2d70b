package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

type taskRepository interface {
	recordStore[models.Task]
	ListByGroup(ctx context.Context, groupID models.ID) ([]models.Task, error)
}

type teacherReader interface {
	Name() string
	All(ctx context.Context) ([]models.Teacher, error)
	Find(ctx context.Context, id models.ID) (*models.Teacher, error)
}

// TaskService manages tasks. A task may only be assigned by the teacher who leads
// the group.
type TaskService struct {
	base
	repo     taskRepository
	groups   groupRepository
	teachers teacherReader
}

// NewTaskService constructs a TaskService.
func NewTaskService(repo taskRepository, groups groupRepository, teachers teacherReader, opts Options) *TaskService {
	return &TaskService{base: newBase(opts), repo: repo, groups: groups, teachers: teachers}
}

// List returns tasks with group and teacher names.
func (s *TaskService) List(ctx context.Context) ([]models.TaskView, error) {
	tasks, err := listRecords[models.Task](ctx, s.repo)
	if err != nil {
		return nil, err
	}
	groups, err := listRecords[models.Group](ctx, s.groups)
	if err != nil {
		return nil, err
	}
	teachers, err := s.teachers.All(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load teachers")
	}
	return ResolveTasks(tasks, groups, teachers), nil
}

// ListByGroup returns the stored tasks of one group.
func (s *TaskService) ListByGroup(ctx context.Context, groupID models.ID) ([]models.Task, error) {
	tasks, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, internalError(err, "failed to load tasks")
	}
	return tasks, nil
}

// Create assigns a new task.
func (s *TaskService) Create(ctx context.Context, patch models.Patch) (*models.Task, error) {
	task, err := patchRecord(models.Task{
		ID:        s.nextID(),
		Status:    models.TaskStatusPending,
		CreatedAt: s.timestamp(),
	}, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}
	if err := s.validate(task, "task"); err != nil {
		return nil, err
	}

	release := s.locks.Lock(s.repo.Name())
	defer release()

	if err := s.checkOwnership(ctx, task); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, task); err != nil {
		return nil, internalError(err, "failed to create task")
	}
	s.logger.Info("task created", zap.Int64("task_id", int64(task.ID)), zap.Int64("group_id", int64(task.GroupID)))
	return &task, nil
}

// Update merges patch into a task, re-checking ownership when the group or teacher changes.
func (s *TaskService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Task, error) {
	release := s.locks.Lock(s.repo.Name())
	defer release()

	current, err := findRecord[models.Task](ctx, s.repo, id, "task")
	if err != nil {
		return nil, err
	}
	task, err := patchRecord(*current, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}
	if err := s.validate(task, "task"); err != nil {
		return nil, err
	}
	if task.GroupID != current.GroupID || task.TeacherID != current.TeacherID {
		if err := s.checkOwnership(ctx, task); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Replace(ctx, task); err != nil {
		return nil, internalError(err, "failed to update task")
	}
	return &task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name())
	defer release()

	_, err := deleteRecord[models.Task](ctx, s.repo, id, "task")
	return err
}

func (s *TaskService) checkOwnership(ctx context.Context, task models.Task) error {
	group, err := findRecord[models.Group](ctx, s.groups, task.GroupID, "group")
	if err != nil {
		return err
	}
	if _, err := s.teachers.Find(ctx, task.TeacherID); err != nil {
		return lookupError(err, "teacher")
	}
	if group.TeacherID != task.TeacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "teacher does not lead this group")
	}
	return nil
}
