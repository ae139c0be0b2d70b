package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

type branchRepository interface {
	recordStore[models.Branch]
	ListByCompany(ctx context.Context, companyID models.ID) ([]models.Branch, error)
}

type branchUserRepository interface {
	authUserRepository
	ListByBranch(ctx context.Context, branchID models.ID) ([]models.User, error)
}

// statsSource reads the collections behind the center-wide counters.
type statsSource interface {
	Stats(ctx context.Context) (models.BranchStats, error)
}

// BranchService manages branches and the login account each one gets.
type BranchService struct {
	base
	repo      branchRepository
	companies companyRepository
	users     branchUserRepository
	stats     statsSource
}

// NewBranchService constructs a BranchService.
func NewBranchService(repo branchRepository, companies companyRepository, users branchUserRepository, stats statsSource, opts Options) *BranchService {
	return &BranchService{base: newBase(opts), repo: repo, companies: companies, users: users, stats: stats}
}

// List returns branches, optionally only those of one company, with aggregate counters.
func (s *BranchService) List(ctx context.Context, companyID *models.ID) ([]models.BranchView, error) {
	var (
		branches []models.Branch
		err      error
	)
	if companyID != nil {
		branches, err = s.repo.ListByCompany(ctx, *companyID)
	} else {
		branches, err = s.repo.All(ctx)
	}
	if err != nil {
		return nil, internalError(err, "failed to load branches")
	}
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveBranches(branches, stats), nil
}

// Create registers a branch and its login user. The payload carries the branch fields
// plus username and password for the account.
func (s *BranchService) Create(ctx context.Context, patch models.Patch) (*models.BranchCreated, error) {
	var username, password string
	if _, err := takeField(patch, "username", &username); err != nil {
		return nil, err
	}
	if _, err := takeField(patch, "password", &password); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)

	branch, err := patchRecord(models.Branch{
		ID:        s.nextID(),
		Status:    models.StatusActive,
		CreatedAt: s.timestamp(),
	}, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}

	release := s.locks.Lock(s.repo.Name(), s.companies.Name(), s.users.Name())
	defer release()

	if _, err := findRecord[models.Company](ctx, s.companies, branch.CompanyID, "company"); err != nil {
		return nil, err
	}
	if username == "" || password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "username and password are required")
	}
	if err := ensureUsernameFree(ctx, s.users, username, 0); err != nil {
		return nil, err
	}
	if err := s.validate(branch, "branch"); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	if err := s.repo.Insert(ctx, branch); err != nil {
		return nil, internalError(err, "failed to create branch")
	}
	user := models.User{
		ID:        s.nextID(),
		Username:  username,
		Password:  hash,
		Role:      models.RoleBranch,
		Name:      branch.Name,
		CompanyID: branch.CompanyID.Ptr(),
		BranchID:  branch.ID.Ptr(),
		CreatedAt: branch.CreatedAt,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, internalError(err, "failed to create branch user")
	}

	s.logger.Info("branch created",
		zap.Int64("branch_id", int64(branch.ID)),
		zap.Int64("company_id", int64(branch.CompanyID)),
		zap.Int64("user_id", int64(user.ID)),
	)
	return &models.BranchCreated{
		Branch: branch,
		User:   models.BranchLogin{Username: username, Role: models.RoleBranch},
	}, nil
}

// Update merges patch into a branch. Moving it to another company requires that company
// to exist.
func (s *BranchService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Branch, error) {
	release := s.locks.Lock(s.repo.Name(), s.companies.Name())
	defer release()

	current, err := findRecord[models.Branch](ctx, s.repo, id, "branch")
	if err != nil {
		return nil, err
	}
	branch, err := patchRecord(*current, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}
	if err := s.validate(branch, "branch"); err != nil {
		return nil, err
	}
	if branch.CompanyID != current.CompanyID {
		if _, err := findRecord[models.Company](ctx, s.companies, branch.CompanyID, "company"); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Replace(ctx, branch); err != nil {
		return nil, internalError(err, "failed to update branch")
	}
	return &branch, nil
}

// Delete removes a branch together with its login accounts.
func (s *BranchService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name(), s.users.Name())
	defer release()

	if _, err := deleteRecord[models.Branch](ctx, s.repo, id, "branch"); err != nil {
		return err
	}
	linked, err := s.users.ListByBranch(ctx, id)
	if err != nil {
		return internalError(err, "failed to load branch users")
	}
	for _, u := range linked {
		if _, err := s.users.Delete(ctx, u.ID); err != nil {
			return internalError(err, "failed to delete branch user")
		}
	}
	s.logger.Info("branch deleted", zap.Int64("branch_id", int64(id)), zap.Int("users_deleted", len(linked)))
	return nil
}

// Stats returns the dashboard numbers for a branch.
func (s *BranchService) Stats(ctx context.Context, id models.ID) (*models.BranchStats, error) {
	if _, err := findRecord[models.Branch](ctx, s.repo, id, "branch"); err != nil {
		return nil, err
	}
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
