package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
)

type teacherRepository interface {
	recordStore[models.Teacher]
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	base
	repo teacherRepository
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, opts Options) *TeacherService {
	return &TeacherService{base: newBase(opts), repo: repo}
}

// List returns every teacher.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	return listRecords[models.Teacher](ctx, s.repo)
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id models.ID) (*models.Teacher, error) {
	return findRecord[models.Teacher](ctx, s.repo, id, "teacher")
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, patch models.Patch) (*models.Teacher, error) {
	teacher, err := patchRecord(models.Teacher{ID: s.nextID()}, patch, "id")
	if err != nil {
		return nil, err
	}
	if err := s.validate(teacher, "teacher"); err != nil {
		return nil, err
	}

	release := s.locks.Lock(s.repo.Name())
	defer release()

	if err := s.repo.Insert(ctx, teacher); err != nil {
		return nil, internalError(err, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.Int64("teacher_id", int64(teacher.ID)))
	return &teacher, nil
}

// Update merges patch into an existing teacher.
func (s *TeacherService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Teacher, error) {
	release := s.locks.Lock(s.repo.Name())
	defer release()

	current, err := findRecord[models.Teacher](ctx, s.repo, id, "teacher")
	if err != nil {
		return nil, err
	}
	teacher, err := patchRecord(*current, patch, "id")
	if err != nil {
		return nil, err
	}
	if err := s.validate(teacher, "teacher"); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, teacher); err != nil {
		return nil, internalError(err, "failed to update teacher")
	}
	return &teacher, nil
}

// Delete removes a teacher. Groups and tasks keep their teacherId and show a
// placeholder name afterwards.
func (s *TeacherService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name())
	defer release()

	if _, err := deleteRecord[models.Teacher](ctx, s.repo, id, "teacher"); err != nil {
		return err
	}
	s.logger.Info("teacher deleted", zap.Int64("teacher_id", int64(id)))
	return nil
}
