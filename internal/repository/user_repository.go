package repository

import (
	"context"

	"gorm.io/gorm"

	"chathub/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.User, error)
	// ClearResetToken nulls the reset token with an immediate UPDATE so the old
	// token is invalid before a replacement is written.
	ClearResetToken(ctx context.Context, userID uint) error
	// WithTransaction runs fn against transaction-bound user and credential
	// repositories. Used where a user and its credential must change together.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, users UserRepository, creds CredentialRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, user *model.User) error {
	// Credential, memberships and messages go with the user via FK cascade.
	return r.db.WithContext(ctx).Select("Credential", "Messages", "Chats").Delete(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Credential").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Credential").
		Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Credential").
		Where("verification_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Credential").
		Where("password_reset_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Credential").
		Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListPending(ctx context.Context, offset, limit int) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Credential").
		Where("is_approved = ? AND email_verified = ?", false, true).
		Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ClearResetToken(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_reset_token", nil).Error
}

func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, users UserRepository, creds CredentialRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &userRepository{db: tx}, &credentialRepository{db: tx})
	})
}
