package repository

import (
	"context"

	"gorm.io/gorm"

	"chathub/internal/model"
)

// CredentialRepository defines credential persistence operations.
type CredentialRepository interface {
	Create(ctx context.Context, cred *model.Credential) error
	Update(ctx context.Context, cred *model.Credential) error
	Delete(ctx context.Context, cred *model.Credential) error
	FindByUserID(ctx context.Context, userID uint) (*model.Credential, error)
	FindByUsername(ctx context.Context, username string) (*model.Credential, error)
	// UsernameTaken reports whether another user already holds the username.
	UsernameTaken(ctx context.Context, username string, excludeUserID uint) (bool, error)
}

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository builds a GORM-backed credential repository.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}

func (r *credentialRepository) Update(ctx context.Context, cred *model.Credential) error {
	return r.db.WithContext(ctx).Save(cred).Error
}

func (r *credentialRepository) Delete(ctx context.Context, cred *model.Credential) error {
	return r.db.WithContext(ctx).Delete(cred).Error
}

func (r *credentialRepository) FindByUserID(ctx context.Context, userID uint) (*model.Credential, error) {
	var cred model.Credential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) FindByUsername(ctx context.Context, username string) (*model.Credential, error) {
	var cred model.Credential
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) UsernameTaken(ctx context.Context, username string, excludeUserID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Credential{}).
		Where("username = ? AND user_id <> ?", username, excludeUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
