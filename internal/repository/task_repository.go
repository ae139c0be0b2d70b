package repository

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// TaskRepository manages persistence for tasks.
type TaskRepository struct {
	*Collection[models.Task]
}

// NewTaskRepository constructs a TaskRepository.
func NewTaskRepository(s *store.Store) *TaskRepository {
	return &TaskRepository{Collection: NewCollection[models.Task](s, CollectionTasks)}
}

// ListByGroup returns the tasks assigned to a group.
func (r *TaskRepository) ListByGroup(ctx context.Context, groupID models.ID) ([]models.Task, error) {
	return r.Filter(ctx, func(t models.Task) bool { return t.GroupID == groupID })
}
