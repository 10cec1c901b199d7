package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minhtran-dev/taskdesk/internal/cache"
	"github.com/minhtran-dev/taskdesk/internal/constants"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken       = errors.New("email already exists")
	ErrMissingUserField = errors.New("full name, email and password are required")
	ErrInvalidRole      = errors.New("role must be employee or manager")
	ErrUserHasData      = errors.New("user has related data (tasks or comments) and cannot be deleted")
	ErrInvalidStatus    = errors.New("account status must be active or inactive")
)

// UserService handles account administration: creating employee/manager
// accounts, banning, password resets, and guarded deletion.
type UserService struct {
	profileRepo repository.ProfileRepository
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository
	cache       cache.Cache
}

// NewUserService creates a new UserService.
func NewUserService(profileRepo repository.ProfileRepository, taskRepo repository.TaskRepository, commentRepo repository.CommentRepository, c cache.Cache) *UserService {
	return &UserService{
		profileRepo: profileRepo,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		cache:       c,
	}
}

// ListUsers returns all profiles ordered by full name.
func (s *UserService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if hit, err := s.cache.Get(ctx, cache.KeyProfiles(), &profiles); err == nil && hit {
		return profiles, nil
	}

	profiles, err := s.profileRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	_ = s.cache.Set(ctx, cache.KeyProfiles(), profiles)
	return profiles, nil
}

// CreateUserInput holds the fields for an admin-created account.
type CreateUserInput struct {
	FullName string
	Email    string
	Password string
	Role     models.Role
}

// CreateUser creates an employee or manager account with a temporary password.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.Profile, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	if fullName == "" || email == "" || input.Password == "" {
		return nil, ErrMissingUserField
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Role != models.RoleEmployee && input.Role != models.RoleManager {
		return nil, ErrInvalidRole
	}

	if _, err := s.profileRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	profile := &models.Profile{
		FullName:      fullName,
		Email:         email,
		PasswordHash:  string(hashed),
		Role:          input.Role,
		AccountStatus: models.AccountActive,
	}

	if err := s.profileRepo.Create(profile); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.KeyProfiles())
	return profile, nil
}

// SetAccountStatus bans or unbans an account. Inactive accounts are denied
// login and blocked from further actions mid-session.
func (s *UserService) SetAccountStatus(ctx context.Context, profileID uint64, status models.AccountStatus) (*models.Profile, error) {
	if status != models.AccountActive && status != models.AccountInactive {
		return nil, ErrInvalidStatus
	}

	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	profile.AccountStatus = status
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.KeyProfiles())
	return profile, nil
}

// ResetPassword sets a new password on another user's account.
func (s *UserService) ResetPassword(profileID uint64, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	profile.PasswordHash = string(hashed)
	if err := s.profileRepo.Update(profile); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}

// DeleteUser removes an account after verifying no tasks or comments
// reference it, so the failure is a specific integrity error instead of a raw
// constraint violation.
func (s *UserService) DeleteUser(ctx context.Context, profileID uint64) error {
	if _, err := s.profileRepo.FindByID(profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	taskCount, err := s.taskRepo.CountByProfile(profileID)
	if err != nil {
		return fmt.Errorf("failed to check related tasks: %w", err)
	}
	commentCount, err := s.commentRepo.CountByAuthor(profileID)
	if err != nil {
		return fmt.Errorf("failed to check related comments: %w", err)
	}
	if taskCount > 0 || commentCount > 0 {
		return ErrUserHasData
	}

	if err := s.profileRepo.Delete(profileID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	_ = s.cache.Invalidate(ctx, cache.KeyProfiles())
	return nil
}
