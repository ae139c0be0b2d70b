package repository

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// UserRepository manages persistence for login accounts.
type UserRepository struct {
	*Collection[models.User]
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{Collection: NewCollection[models.User](s, CollectionUsers)}
}

// FindByUsername looks a user up by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

// ListByBranch returns the accounts linked to a branch.
func (r *UserRepository) ListByBranch(ctx context.Context, branchID models.ID) ([]models.User, error) {
	return r.Filter(ctx, func(u models.User) bool { return u.BranchID != nil && *u.BranchID == branchID })
}
