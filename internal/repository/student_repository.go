package repository

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	*Collection[models.Student]
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(s *store.Store) *StudentRepository {
	return &StudentRepository{Collection: NewCollection[models.Student](s, CollectionStudents)}
}

// List returns students matching the filter.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	return r.Filter(ctx, filter.Matches)
}

// ListByGroup returns the members of a group.
func (r *StudentRepository) ListByGroup(ctx context.Context, groupID models.ID) ([]models.Student, error) {
	return r.List(ctx, models.StudentFilter{GroupID: &groupID})
}

// FindByCredentials matches a student on exact phone and either the stored name or the
// first and last name joined.
func (r *StudentRepository) FindByCredentials(ctx context.Context, phone, name string) (*models.Student, error) {
	students, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range students {
		s := students[i]
		if s.Phone != phone {
			continue
		}
		if s.Name == name || s.DisplayName() == name {
			return &students[i], nil
		}
	}
	return nil, ErrNotFound
}
