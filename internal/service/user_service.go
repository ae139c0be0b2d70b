package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

// UserService administers login accounts. Passwords never leave the service.
type UserService struct {
	base
	repo authUserRepository
}

// NewUserService constructs a UserService.
func NewUserService(repo authUserRepository, opts Options) *UserService {
	return &UserService{base: newBase(opts), repo: repo}
}

// List returns every account without passwords.
func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := listRecords[models.User](ctx, s.repo)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// Update merges patch into an account. A new password is hashed before storing.
func (s *UserService) Update(ctx context.Context, id models.ID, patch models.Patch) (*models.PublicUser, error) {
	var password string
	changePassword, err := takeField(patch, "password", &password)
	if err != nil {
		return nil, err
	}

	release := s.locks.Lock(s.repo.Name())
	defer release()

	current, err := findRecord[models.User](ctx, s.repo, id, "user")
	if err != nil {
		return nil, err
	}
	user, err := patchRecord(*current, patch, "id", "createdAt")
	if err != nil {
		return nil, err
	}
	user.Username = strings.TrimSpace(user.Username)
	if changePassword {
		if password == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
		}
		if user.Password, err = hashPassword(password); err != nil {
			return nil, internalError(err, "failed to hash password")
		}
	}
	if err := s.validate(user, "user"); err != nil {
		return nil, err
	}
	if !user.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
	if user.Username != current.Username {
		if err := ensureUsernameFree(ctx, s.repo, user.Username, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Replace(ctx, user); err != nil {
		return nil, internalError(err, "failed to update user")
	}
	s.logger.Info("user updated", zap.Int64("user_id", int64(id)), zap.Bool("password_changed", changePassword))
	public := user.Public()
	return &public, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id models.ID) error {
	release := s.locks.Lock(s.repo.Name())
	defer release()

	if _, err := deleteRecord[models.User](ctx, s.repo, id, "user"); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", int64(id)))
	return nil
}
