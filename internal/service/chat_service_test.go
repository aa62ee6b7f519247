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

func TestChatService_Create(t *testing.T) {
	t.Run("unknown member id fails before the room exists", func(t *testing.T) {
		chatRepo := &MockChatRepository{}
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		userRepo.On("FindByID", mock.Anything, uint(99)).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewChatService(chatRepo, userRepo)
		_, err := svc.Create(context.Background(), 1, strPtr("room"), []uint{99})

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		chatRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creator becomes owner, listed users become members", func(t *testing.T) {
		chatRepo := &MockChatRepository{}
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		userRepo.On("FindByID", mock.Anything, uint(2)).
			Return(&model.User{ID: 2}, nil)

		chatRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Chat")).
			Run(func(args mock.Arguments) { args.Get(1).(*model.Chat).ID = 10 }).
			Return(nil)
		chatRepo.On("AddMember", mock.Anything, uint(10), uint(1), model.ChatRoleOwner).Return(nil)
		chatRepo.On("AddMember", mock.Anything, uint(10), uint(2), model.ChatRoleMember).Return(nil)
		chatRepo.On("FindByID", mock.Anything, uint(10)).
			Return(&model.Chat{ID: 10, Name: strPtr("room")}, nil)

		svc := NewChatService(chatRepo, userRepo)
		// Creator listed among the members is deduplicated, not double-added.
		chat, err := svc.Create(context.Background(), 1, strPtr("room"), []uint{1, 2})

		assert.NoError(t, err)
		assert.Equal(t, uint(10), chat.ID)
		chatRepo.AssertExpectations(t)
	})
}

func TestChatService_CreateFailedMemberInsertAbortsCreation(t *testing.T) {
	// Room row and memberships share a transaction; a failed member insert
	// surfaces as an error instead of leaving a half-populated room.
	chatRepo := &MockChatRepository{}
	userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
	userRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2}, nil)

	chatRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Chat")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Chat).ID = 10 }).
		Return(nil)
	chatRepo.On("AddMember", mock.Anything, uint(10), uint(1), model.ChatRoleOwner).Return(nil)
	chatRepo.On("AddMember", mock.Anything, uint(10), uint(2), model.ChatRoleMember).Return(assert.AnError)

	svc := NewChatService(chatRepo, userRepo)
	_, err := svc.Create(context.Background(), 1, strPtr("room"), []uint{2})

	assert.ErrorIs(t, err, assert.AnError)
	chatRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestChatService_AddMember(t *testing.T) {
	chat := &model.Chat{ID: 10}

	tests := []struct {
		name      string
		setupMock func(chatRepo *MockChatRepository, userRepo *MockUserRepository)
		wantErr   error
	}{
		{
			name: "chat not found",
			setupMock: func(chatRepo *MockChatRepository, userRepo *MockUserRepository) {
				chatRepo.On("FindByID", mock.Anything, uint(10)).
					Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrChatNotFound,
		},
		{
			name: "user not found",
			setupMock: func(chatRepo *MockChatRepository, userRepo *MockUserRepository) {
				chatRepo.On("FindByID", mock.Anything, uint(10)).Return(chat, nil)
				userRepo.On("FindByID", mock.Anything, uint(5)).
					Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
		{
			name: "already a member",
			setupMock: func(chatRepo *MockChatRepository, userRepo *MockUserRepository) {
				chatRepo.On("FindByID", mock.Anything, uint(10)).Return(chat, nil)
				userRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5}, nil)
				chatRepo.On("IsMember", mock.Anything, uint(10), uint(5)).Return(true, nil)
			},
			wantErr: apperrors.ErrAlreadyInChat,
		},
		{
			name: "empty role defaults to member",
			setupMock: func(chatRepo *MockChatRepository, userRepo *MockUserRepository) {
				chatRepo.On("FindByID", mock.Anything, uint(10)).Return(chat, nil)
				userRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5}, nil)
				chatRepo.On("IsMember", mock.Anything, uint(10), uint(5)).Return(false, nil)
				chatRepo.On("AddMember", mock.Anything, uint(10), uint(5), model.ChatRoleMember).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := &MockChatRepository{}
			userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
			tt.setupMock(chatRepo, userRepo)

			svc := NewChatService(chatRepo, userRepo)
			got, err := svc.AddMember(context.Background(), 10, 5, "")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, uint(10), got.ID)
			chatRepo.AssertExpectations(t)
		})
	}
}

func TestChatService_RemoveMember(t *testing.T) {
	t.Run("not a member", func(t *testing.T) {
		chatRepo := &MockChatRepository{}
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		chatRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Chat{ID: 10}, nil)
		userRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5}, nil)
		chatRepo.On("IsMember", mock.Anything, uint(10), uint(5)).Return(false, nil)

		svc := NewChatService(chatRepo, userRepo)
		_, err := svc.RemoveMember(context.Background(), 10, 5)

		assert.ErrorIs(t, err, apperrors.ErrUserNotInChat)
		chatRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		chatRepo := &MockChatRepository{}
		userRepo := &MockUserRepository{Creds: &MockCredentialRepository{}}
		chatRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Chat{ID: 10}, nil)
		userRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5}, nil)
		chatRepo.On("IsMember", mock.Anything, uint(10), uint(5)).Return(true, nil)
		chatRepo.On("RemoveMember", mock.Anything, uint(10), uint(5)).Return(nil)

		svc := NewChatService(chatRepo, userRepo)
		chat, err := svc.RemoveMember(context.Background(), 10, 5)

		assert.NoError(t, err)
		assert.Equal(t, uint(10), chat.ID)
	})
}
