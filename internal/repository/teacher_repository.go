package repository

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// TeacherRepository manages persistence for teacher records.
type TeacherRepository struct {
	*Collection[models.Teacher]
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(s *store.Store) *TeacherRepository {
	return &TeacherRepository{Collection: NewCollection[models.Teacher](s, CollectionTeachers)}
}

// FindByCredentials matches a teacher on exact phone and name.
func (r *TeacherRepository) FindByCredentials(ctx context.Context, phone, name string) (*models.Teacher, error) {
	teachers, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		if teachers[i].Phone == phone && teachers[i].Name == name {
			return &teachers[i], nil
		}
	}
	return nil, ErrNotFound
}
