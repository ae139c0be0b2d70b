package repository

import (
	"context"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// BranchRepository manages persistence for branches.
type BranchRepository struct {
	*Collection[models.Branch]
}

// NewBranchRepository constructs a BranchRepository.
func NewBranchRepository(s *store.Store) *BranchRepository {
	return &BranchRepository{Collection: NewCollection[models.Branch](s, CollectionBranches)}
}

// ListByCompany returns the branches of one company.
func (r *BranchRepository) ListByCompany(ctx context.Context, companyID models.ID) ([]models.Branch, error) {
	return r.Filter(ctx, func(b models.Branch) bool { return b.CompanyID == companyID })
}
