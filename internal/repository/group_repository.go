package repository

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// GroupRepository manages persistence for group records.
type GroupRepository struct {
	*Collection[models.Group]
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(s *store.Store) *GroupRepository {
	return &GroupRepository{Collection: NewCollection[models.Group](s, CollectionGroups)}
}

// ListByTeacher returns the groups a teacher leads.
func (r *GroupRepository) ListByTeacher(ctx context.Context, teacherID models.ID) ([]models.Group, error) {
	return r.Filter(ctx, func(g models.Group) bool { return g.TeacherID == teacherID })
}
