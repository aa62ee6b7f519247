package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chathub/internal/auth"
	apperrors "chathub/internal/errors"
	"chathub/internal/model"
	"chathub/internal/repository"
)

// CredentialService owns the authenticated user's credential record.
type CredentialService interface {
	Get(ctx context.Context, userID uint) (*model.Credential, error)
	// Update changes username and/or password. Nil fields are left untouched.
	Update(ctx context.Context, userID uint, username, password *string) (*model.Credential, error)
	// ChangePassword verifies the old password before storing the new one.
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	// Delete removes the credential, which prevents login until a password is
	// set again through the reset flow.
	Delete(ctx context.Context, userID uint) error
}

type credentialService struct {
	credRepo repository.CredentialRepository
	hasher   *auth.PasswordHasher
}

// NewCredentialService creates a new credential service.
func NewCredentialService(credRepo repository.CredentialRepository, hasher *auth.PasswordHasher) CredentialService {
	return &credentialService{
		credRepo: credRepo,
		hasher:   hasher,
	}
}

func (s *credentialService) Get(ctx context.Context, userID uint) (*model.Credential, error) {
	cred, err := s.credRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return cred, nil
}

func (s *credentialService) Update(ctx context.Context, userID uint, username, password *string) (*model.Credential, error) {
	cred, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username != nil && *username != "" {
		taken, err := s.credRepo.UsernameTaken(ctx, *username, userID)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, apperrors.ErrUsernameTaken
		}
		cred.Username = *username
	}

	if password != nil && *password != "" {
		hash, err := s.hasher.Hash(ctx, *password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		cred.PasswordHash = hash
	}

	if err := s.credRepo.Update(ctx, cred); err != nil {
		return nil, fmt.Errorf("update credential: %w", err)
	}
	return cred, nil
}

func (s *credentialService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	cred, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(ctx, oldPassword, cred.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperrors.ErrWrongPassword
		}
		return fmt.Errorf("verify password: %w", err)
	}

	// Rejected even though the old password just verified: a no-op change is
	// almost always a client mistake.
	if oldPassword == newPassword {
		return apperrors.ErrSamePassword
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	cred.PasswordHash = hash
	if err := s.credRepo.Update(ctx, cred); err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	return nil
}

func (s *credentialService) Delete(ctx context.Context, userID uint) error {
	cred, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.credRepo.Delete(ctx, cred); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
