package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"chathub/internal/auth"
	apperrors "chathub/internal/errors"
	"chathub/internal/model"
	"chathub/internal/repository"
)

// UserService owns registration, profile CRUD and the admin approval queue.
type UserService interface {
	// Register creates an unverified user and returns it with its fresh
	// verification token.
	Register(ctx context.Context, email, fullName string) (*model.User, string, error)
	// Create makes a user and credential directly, skipping verification.
	Create(ctx context.Context, email, username, password string, firstName, lastName *string) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	ListPending(ctx context.Context, actorID uint, offset, limit int) ([]model.User, error)
	UpdateProfile(ctx context.Context, actorID, userID uint, email, firstName, lastName *string) (*model.User, error)
	Approve(ctx context.Context, actorID, userID uint) (*model.User, error)
	Reject(ctx context.Context, actorID, userID uint) (*model.User, error)
	Delete(ctx context.Context, actorID, userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
	credRepo repository.CredentialRepository
	hasher   *auth.PasswordHasher
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, credRepo repository.CredentialRepository, hasher *auth.PasswordHasher) UserService {
	return &userService{
		userRepo: userRepo,
		credRepo: credRepo,
		hasher:   hasher,
	}
}

func (s *userService) Register(ctx context.Context, email, fullName string) (*model.User, string, error) {
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateVerificationToken()
	if err != nil {
		return nil, "", err
	}

	firstName, lastName := splitFullName(fullName)
	user := &model.User{
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		Role:              model.RoleUser,
		VerificationToken: &token,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	return user, token, nil
}

func (s *userService) Create(ctx context.Context, email, username, password string, firstName, lastName *string) (*model.User, error) {
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	if taken, err := s.credRepo.UsernameTaken(ctx, username, 0); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      model.RoleUser,
	}
	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, creds repository.CredentialRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		cred := &model.Credential{
			UserID:       user.ID,
			Username:     username,
			PasswordHash: hash,
		}
		if err := creds.Create(ctx, cred); err != nil {
			return fmt.Errorf("create credential: %w", err)
		}
		user.Credential = cred
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	return s.userRepo.List(ctx, offset, limit)
}

func (s *userService) ListPending(ctx context.Context, actorID uint, offset, limit int) ([]model.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.userRepo.ListPending(ctx, offset, limit)
}

func (s *userService) UpdateProfile(ctx context.Context, actorID, userID uint, email, firstName, lastName *string) (*model.User, error) {
	if actorID != userID {
		return nil, apperrors.ErrNotSelf
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != nil && *email != "" && *email != user.Email {
		if err := s.ensureEmailFree(ctx, *email, userID); err != nil {
			return nil, err
		}
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = firstName
	}
	if lastName != nil {
		user.LastName = lastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Approve(ctx context.Context, actorID, userID uint) (*model.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsApproved {
		return nil, apperrors.ErrAlreadyApproved
	}

	user.IsApproved = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("approve user: %w", err)
	}
	return user, nil
}

func (s *userService) Reject(ctx context.Context, actorID, userID uint) (*model.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsApproved = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("reject user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actorID, userID uint) error {
	if actorID != userID {
		return apperrors.ErrNotSelf
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	// Credential, memberships and messages go with the user.
	if err := s.userRepo.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) requireAdmin(ctx context.Context, actorID uint) error {
	actor, err := s.Get(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.ErrAdminOnly
	}
	return nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, excludeID uint) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check email: %w", err)
	}
	if existing.ID != excludeID {
		return apperrors.ErrEmailTaken
	}
	return nil
}

// splitFullName splits "Jane van Doe" into first name "Jane" and last name
// "van Doe". A single word becomes the first name only.
func splitFullName(fullName string) (*string, *string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, nil
	}
	parts := strings.SplitN(fullName, " ", 2)
	first := parts[0]
	if len(parts) == 1 {
		return &first, nil
	}
	last := strings.TrimSpace(parts[1])
	return &first, &last
}
