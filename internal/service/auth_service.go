package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
)

type authUserRepository interface {
	recordStore[models.User]
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type credentialStudentRepository interface {
	FindByCredentials(ctx context.Context, phone, name string) (*models.Student, error)
}

type credentialTeacherRepository interface {
	FindByCredentials(ctx context.Context, phone, name string) (*models.Teacher, error)
}

// AuthConfig defines configuration for token issuance.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

const loginMessage = "Login successful"

// AuthService provides the login and registration flows.
type AuthService struct {
	base
	users    authUserRepository
	students credentialStudentRepository
	teachers credentialTeacherRepository
	config   AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, students credentialStudentRepository, teachers credentialTeacherRepository, config AuthConfig, opts Options) *AuthService {
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{base: newBase(opts), users: users, students: students, teachers: teachers, config: config}
}

// Login authenticates a username and password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, internalError(err, "failed to fetch user")
	}

	ok, legacy := checkPassword(user.Password, req.Password)
	if !ok {
		return nil, appErrors.ErrInvalidCredentials
	}
	if legacy {
		s.upgradePassword(ctx, user.ID, req.Password)
	}

	token, err := s.issueToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}
	s.logger.Info("user logged in", zap.Int64("user_id", int64(user.ID)), zap.String("role", string(user.Role)))

	return &models.LoginResponse{
		Success: true,
		User:    user.Public(),
		Message: loginMessage,
		Token:   token,
	}, nil
}

// upgradePassword replaces a plaintext password with its hash. Failures are logged only;
// the login itself already succeeded.
func (s *AuthService) upgradePassword(ctx context.Context, id models.ID, plain string) {
	hash, err := hashPassword(plain)
	if err != nil {
		s.logger.Warn("failed to hash legacy password", zap.Error(err))
		return
	}

	release := s.locks.Lock(s.users.Name())
	defer release()

	user, err := s.users.Find(ctx, id)
	if err != nil {
		s.logger.Warn("failed to reload user for password upgrade", zap.Error(err))
		return
	}
	user.Password = hash
	if err := s.users.Replace(ctx, *user); err != nil {
		s.logger.Warn("failed to store upgraded password", zap.Error(err))
		return
	}
	s.logger.Info("legacy password upgraded", zap.Int64("user_id", int64(id)))
}

// Register creates a login account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username, password and role are required")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	release := s.locks.Lock(s.users.Name())
	defer release()

	if err := ensureUsernameFree(ctx, s.users, req.Username, 0); err != nil {
		return nil, err
	}
	user := models.User{
		ID:        s.nextID(),
		Username:  req.Username,
		Password:  hash,
		Role:      req.Role,
		Name:      req.Name,
		CreatedAt: s.timestamp(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, internalError(err, "failed to register user")
	}
	s.logger.Info("user registered", zap.Int64("user_id", int64(user.ID)), zap.String("role", string(user.Role)))

	return &models.LoginResponse{
		Success: true,
		User:    user.Public(),
		Message: "User registered successfully",
	}, nil
}

// LoginStudent authenticates a student by phone number and name.
func (s *AuthService) LoginStudent(ctx context.Context, req models.PhoneLoginRequest) (*models.LoginResponse, error) {
	req, err := s.normalizePhoneLogin(req)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindByCredentials(ctx, req.Phone, req.Name)
	if err != nil {
		return nil, phoneLoginError(err)
	}
	token, err := s.issueToken(student.ID, "", models.RoleStudent)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}
	return &models.LoginResponse{
		Success: true,
		User: models.StudentPrincipal{
			ID:      student.ID,
			Name:    student.DisplayName(),
			Phone:   student.Phone,
			Role:    models.RoleStudent,
			GroupID: student.GroupID,
			Group:   student.Group,
			Status:  student.Status,
		},
		Message: loginMessage,
		Token:   token,
	}, nil
}

// LoginTeacher authenticates a teacher by phone number and name.
func (s *AuthService) LoginTeacher(ctx context.Context, req models.PhoneLoginRequest) (*models.LoginResponse, error) {
	req, err := s.normalizePhoneLogin(req)
	if err != nil {
		return nil, err
	}
	teacher, err := s.teachers.FindByCredentials(ctx, req.Phone, req.Name)
	if err != nil {
		return nil, phoneLoginError(err)
	}
	token, err := s.issueToken(teacher.ID, "", models.RoleTeacher)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}
	return &models.LoginResponse{
		Success: true,
		User: models.TeacherPrincipal{
			ID:      teacher.ID,
			Name:    teacher.Name,
			Phone:   teacher.Phone,
			Role:    models.RoleTeacher,
			Subject: teacher.Subject,
			Status:  teacher.Status,
		},
		Message: loginMessage,
		Token:   token,
	}, nil
}

func (s *AuthService) normalizePhoneLogin(req models.PhoneLoginRequest) (models.PhoneLoginRequest, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "phone and name are required")
	}
	return req, nil
}

func phoneLoginError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid phone number or name")
	}
	return internalError(err, "failed to look up credentials")
}

// EnsureAdmin creates the bootstrap admin account unless the username is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, name string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}

	release := s.locks.Lock(s.users.Name())
	defer release()

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, internalError(err, "failed to fetch user")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, internalError(err, "failed to hash password")
	}
	user := models.User{
		ID:        s.nextID(),
		Username:  username,
		Password:  hash,
		Role:      models.RoleAdmin,
		Name:      name,
		CreatedAt: s.timestamp(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return false, internalError(err, "failed to create admin user")
	}
	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return true, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issueToken(id models.ID, username string, role models.UserRole) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		UserID:   id,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

// ensureUsernameFree fails with ErrUsernameTaken when another account (not exceptID)
// already uses username.
func ensureUsernameFree(ctx context.Context, users authUserRepository, username string, exceptID models.ID) error {
	existing, err := users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return internalError(err, "failed to check username")
	}
	if existing.ID != exceptID {
		return appErrors.ErrUsernameTaken
	}
	return nil
}
