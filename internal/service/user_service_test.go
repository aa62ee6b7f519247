package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "chathub/internal/errors"
	"chathub/internal/model"
)

func TestUserService_Register(t *testing.T) {
	hasher := newTestHasher()

	t.Run("email taken", func(t *testing.T) {
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		userRepo.On("FindByEmail", mock.Anything, "dup@example.com").
			Return(&model.User{ID: 2, Email: "dup@example.com"}, nil)

		svc := NewUserService(userRepo, userRepo.Creds, hasher)
		_, _, err := svc.Register(context.Background(), "dup@example.com", "Jane Doe")
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})

	t.Run("creates an unverified user with a token", func(t *testing.T) {
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		userRepo.On("FindByEmail", mock.Anything, "jane@example.com").
			Return(nil, gorm.ErrRecordNotFound)

		var created *model.User
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*model.User) }).
			Return(nil)

		svc := NewUserService(userRepo, userRepo.Creds, hasher)
		user, token, err := svc.Register(context.Background(), "jane@example.com", "Jane van Doe")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.False(t, user.EmailVerified)
		assert.False(t, user.IsApproved)
		if assert.NotNil(t, created.VerificationToken) {
			assert.Equal(t, token, *created.VerificationToken)
		}
		if assert.NotNil(t, user.FirstName) {
			assert.Equal(t, "Jane", *user.FirstName)
		}
		if assert.NotNil(t, user.LastName) {
			assert.Equal(t, "van Doe", *user.LastName)
		}
	})
}

func TestUserService_Create(t *testing.T) {
	hasher := newTestHasher()

	t.Run("username taken", func(t *testing.T) {
		creds := &MockCredentialRepository{}
		userRepo := &MockUserRepository{Creds: creds}
		userRepo.On("FindByEmail", mock.Anything, "jane@example.com").
			Return(nil, gorm.ErrRecordNotFound)
		creds.On("UsernameTaken", mock.Anything, "jane", uint(0)).
			Return(true, nil)

		svc := NewUserService(userRepo, creds, hasher)
		_, err := svc.Create(context.Background(), "jane@example.com", "jane", "s3cret", nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})

	t.Run("creates user and credential together", func(t *testing.T) {
		creds := &MockCredentialRepository{}
		userRepo := &MockUserRepository{Creds: creds}
		userRepo.On("FindByEmail", mock.Anything, "jane@example.com").
			Return(nil, gorm.ErrRecordNotFound)
		creds.On("UsernameTaken", mock.Anything, "jane", uint(0)).
			Return(false, nil)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 7 }).
			Return(nil)

		var createdCred *model.Credential
		creds.On("Create", mock.Anything, mock.AnythingOfType("*model.Credential")).
			Run(func(args mock.Arguments) { createdCred = args.Get(1).(*model.Credential) }).
			Return(nil)

		svc := NewUserService(userRepo, creds, hasher)
		user, err := svc.Create(context.Background(), "jane@example.com", "jane", "s3cret", strPtr("Jane"), nil)

		assert.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.Equal(t, uint(7), createdCred.UserID)
		assert.Equal(t, "jane", createdCred.Username)
		assert.NoError(t, hasher.Compare(context.Background(), "s3cret", createdCred.PasswordHash))
	})
}

func TestUserService_Approve(t *testing.T) {
	hasher := newTestHasher()
	admin := &model.User{ID: 1, Role: model.RoleAdmin, EmailVerified: true, IsApproved: true}
	regular := &model.User{ID: 2, Role: model.RoleUser, EmailVerified: true, IsApproved: true}

	tests := []struct {
		name      string
		actorID   uint
		userID    uint
		setupMock func(userRepo *MockUserRepository)
		wantErr   error
	}{
		{
			name:    "non admin actor",
			actorID: 2,
			userID:  3,
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, uint(2)).Return(regular, nil)
			},
			wantErr: apperrors.ErrAdminOnly,
		},
		{
			name:    "target not found",
			actorID: 1,
			userID:  99,
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, uint(1)).Return(admin, nil)
				userRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
		{
			name:    "already approved",
			actorID: 1,
			userID:  2,
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, uint(1)).Return(admin, nil)
				userRepo.On("FindByID", mock.Anything, uint(2)).Return(regular, nil)
			},
			wantErr: apperrors.ErrAlreadyApproved,
		},
		{
			name:    "success",
			actorID: 1,
			userID:  3,
			setupMock: func(userRepo *MockUserRepository) {
				userRepo.On("FindByID", mock.Anything, uint(1)).Return(admin, nil)
				userRepo.On("FindByID", mock.Anything, uint(3)).
					Return(&model.User{ID: 3, Role: model.RoleUser, EmailVerified: true}, nil)
				userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
			tt.setupMock(userRepo)

			svc := NewUserService(userRepo, userRepo.Creds, hasher)
			user, err := svc.Approve(context.Background(), tt.actorID, tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, user.IsApproved)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	hasher := newTestHasher()

	t.Run("only the user themselves", func(t *testing.T) {
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		svc := NewUserService(userRepo, userRepo.Creds, hasher)
		_, err := svc.UpdateProfile(context.Background(), 1, 2, nil, strPtr("X"), nil)
		assert.ErrorIs(t, err, apperrors.ErrNotSelf)
	})

	t.Run("new email must be free", func(t *testing.T) {
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		userRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Email: "old@example.com"}, nil)
		userRepo.On("FindByEmail", mock.Anything, "taken@example.com").
			Return(&model.User{ID: 2, Email: "taken@example.com"}, nil)

		svc := NewUserService(userRepo, userRepo.Creds, hasher)
		_, err := svc.UpdateProfile(context.Background(), 1, 1, strPtr("taken@example.com"), nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})

	t.Run("updates the provided fields", func(t *testing.T) {
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		userRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Email: "old@example.com", FirstName: strPtr("Old")}, nil)
		userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(userRepo, userRepo.Creds, hasher)
		user, err := svc.UpdateProfile(context.Background(), 1, 1, nil, strPtr("New"), nil)

		assert.NoError(t, err)
		assert.Equal(t, "old@example.com", user.Email)
		assert.Equal(t, "New", *user.FirstName)
	})
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst *string
		wantLast  *string
	}{
		{name: "empty", input: "  "},
		{name: "single word", input: "Jane", wantFirst: strPtr("Jane")},
		{name: "two words", input: "Jane Doe", wantFirst: strPtr("Jane"), wantLast: strPtr("Doe")},
		{name: "compound last name", input: "Jane van Doe", wantFirst: strPtr("Jane"), wantLast: strPtr("van Doe")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := splitFullName(tt.input)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
