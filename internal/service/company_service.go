package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

type companyRepository interface {
	recordStore[models.Company]
}

type companyBranchLister interface {
	Name() string
	ListByCompany(ctx context.Context, companyID models.ID) ([]models.Branch, error)
}

// CompanyService manages companies.
type CompanyService struct {
	base
	repo     companyRepository
	branches companyBranchLister
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(repo companyRepository, branches companyBranchLister, opts Options) *CompanyService {
	return &CompanyService{base: newBase(opts), repo: repo, branches: branches}
}

// List returns every company.
func (s *CompanyService) List(ctx context.Context) ([]models.Company, error) {
	return listRecords[models.Company](ctx, s.repo)
}

// Create registers a company.
func (s *CompanyService) Create(ctx context.Context, patch models.Patch) (*models.Company, error) {
	company, err := patchRecord(models.Company{
		ID:        s.nextID(),
		Status:    models.StatusActive,
		CreatedAt: s.timestamp(),
	}, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}
	if err := s.validate(company, "company"); err != nil {
		return nil, err
	}

	release := s.locks.Lock(s.repo.Name())
	defer release()

	if err := s.repo.Insert(ctx, company); err != nil {
		return nil, internalError(err, "failed to create company")
	}
	s.logger.Info("company created", zap.Int64("company_id", int64(company.ID)))
	return &company, nil
}

// Update merges patch into a company.
func (s *CompanyService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Company, error) {
	release := s.locks.Lock(s.repo.Name())
	defer release()

	current, err := findRecord[models.Company](ctx, s.repo, id, "company")
	if err != nil {
		return nil, err
	}
	company, err := patchRecord(*current, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}
	if err := s.validate(company, "company"); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, company); err != nil {
		return nil, internalError(err, "failed to update company")
	}
	return &company, nil
}

// Delete removes a company that no longer has branches.
func (s *CompanyService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name(), s.branches.Name())
	defer release()

	if _, err := findRecord[models.Company](ctx, s.repo, id, "company"); err != nil {
		return err
	}
	branches, err := s.branches.ListByCompany(ctx, id)
	if err != nil {
		return internalError(err, "failed to load branches")
	}
	if len(branches) > 0 {
		return appErrors.ErrCompanyHasBranches
	}
	if _, err := deleteRecord[models.Company](ctx, s.repo, id, "company"); err != nil {
		return err
	}
	s.logger.Info("company deleted", zap.Int64("company_id", int64(id)))
	return nil
}
