package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService handles registration, credential checks and profile changes.
type UserService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// RegisterInput is a validated registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register stores a new user with the default role. It does not log the user in.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
		Password: digest,
		RoleID:   constants.DefaultRoleID,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate returns the user owning email when password matches.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyPassword reports whether password matches the stored digest for email.
// Unknown emails and lookup failures are reported as a mismatch.
func (s *UserService) VerifyPassword(email, password string) bool {
	user, err := s.FindByEmail(email)
	if err != nil {
		return false
	}
	return s.hasher.Verify(password, user.Password)
}

// ProfileInput carries the new values of an account update.
type ProfileInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfile overwrites username, email and password of current.
// The caller checks the old password first.
func (s *UserService) UpdateProfile(current *models.User, edits ProfileInput) error {
	digest, err := s.hasher.Hash(edits.Password)
	if err != nil {
		return ErrFailedToHashPassword
	}

	current.Username = strings.TrimSpace(edits.Username)
	current.Email = strings.TrimSpace(edits.Email)
	current.Password = digest

	if err := s.userRepo.Save(current); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteAccount removes the user row. Owned clients must be removed beforehand.
func (s *UserService) DeleteAccount(user *models.User) error {
	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// FindByEmail returns ErrUserNotFound when no row matches, and a wrapped error otherwise.
func (s *UserService) FindByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
