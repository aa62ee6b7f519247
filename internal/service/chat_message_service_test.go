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

func TestChatMessageService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(msgRepo *MockChatMessageRepository, chatRepo *MockChatRepository)
		wantErr   error
	}{
		{
			name: "chat not found",
			setupMock: func(msgRepo *MockChatMessageRepository, chatRepo *MockChatRepository) {
				chatRepo.On("FindByID", mock.Anything, uint(10)).
					Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrChatNotFound,
		},
		{
			name: "sender not a member",
			setupMock: func(msgRepo *MockChatMessageRepository, chatRepo *MockChatRepository) {
				chatRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Chat{ID: 10}, nil)
				chatRepo.On("IsMember", mock.Anything, uint(10), uint(5)).Return(false, nil)
			},
			wantErr: apperrors.ErrNotChatMember,
		},
		{
			name: "posting bumps room recency",
			setupMock: func(msgRepo *MockChatMessageRepository, chatRepo *MockChatRepository) {
				chatRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Chat{ID: 10}, nil)
				chatRepo.On("IsMember", mock.Anything, uint(10), uint(5)).Return(true, nil)
				msgRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).
					Run(func(args mock.Arguments) { args.Get(1).(*model.ChatMessage).ID = 3 }).
					Return(nil)
				chatRepo.On("TouchLastUsed", mock.Anything, uint(10), mock.Anything).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgRepo := &MockChatMessageRepository{}
			chatRepo := &MockChatRepository{Msgs: msgRepo}
			tt.setupMock(msgRepo, chatRepo)

			svc := NewChatMessageService(msgRepo, chatRepo)
			msg, err := svc.Create(context.Background(), 5, 10, "hello")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				msgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, uint(10), msg.ChatID)
			assert.Equal(t, uint(5), msg.UserID)
			assert.Equal(t, "hello", msg.Message)
			chatRepo.AssertExpectations(t)
		})
	}
}

func TestChatMessageService_CreateFailedRecencyBumpFailsThePost(t *testing.T) {
	// Message insert and recency bump share a transaction; when the bump
	// fails the whole post fails, it never commits just the message.
	msgRepo := &MockChatMessageRepository{}
	chatRepo := &MockChatRepository{Msgs: msgRepo}
	chatRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Chat{ID: 10}, nil)
	chatRepo.On("IsMember", mock.Anything, uint(10), uint(5)).Return(true, nil)
	msgRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(nil)
	chatRepo.On("TouchLastUsed", mock.Anything, uint(10), mock.Anything).Return(assert.AnError)

	svc := NewChatMessageService(msgRepo, chatRepo)
	_, err := svc.Create(context.Background(), 5, 10, "hello")

	assert.ErrorIs(t, err, assert.AnError)
}

func TestChatMessageService_Update(t *testing.T) {
	t.Run("only the sender may edit", func(t *testing.T) {
		msgRepo := &MockChatMessageRepository{}
		msgRepo.On("FindByID", mock.Anything, uint(10), uint(3)).
			Return(&model.ChatMessage{ID: 3, ChatID: 10, UserID: 5, Message: "hello"}, nil)

		svc := NewChatMessageService(msgRepo, &MockChatRepository{})
		_, err := svc.Update(context.Background(), 6, 10, 3, "edited")

		assert.ErrorIs(t, err, apperrors.ErrNotMessageSender)
		msgRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("sender edits the text", func(t *testing.T) {
		msgRepo := &MockChatMessageRepository{}
		msgRepo.On("FindByID", mock.Anything, uint(10), uint(3)).
			Return(&model.ChatMessage{ID: 3, ChatID: 10, UserID: 5, Message: "hello"}, nil)
		msgRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(nil)

		svc := NewChatMessageService(msgRepo, &MockChatRepository{})
		msg, err := svc.Update(context.Background(), 5, 10, 3, "edited")

		assert.NoError(t, err)
		assert.Equal(t, "edited", msg.Message)
	})
}

func TestChatMessageService_Delete(t *testing.T) {
	t.Run("message not found", func(t *testing.T) {
		msgRepo := &MockChatMessageRepository{}
		msgRepo.On("FindByID", mock.Anything, uint(10), uint(3)).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewChatMessageService(msgRepo, &MockChatRepository{})
		err := svc.Delete(context.Background(), 5, 10, 3)
		assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
	})

	t.Run("only the sender may delete", func(t *testing.T) {
		msgRepo := &MockChatMessageRepository{}
		msgRepo.On("FindByID", mock.Anything, uint(10), uint(3)).
			Return(&model.ChatMessage{ID: 3, ChatID: 10, UserID: 5}, nil)

		svc := NewChatMessageService(msgRepo, &MockChatRepository{})
		err := svc.Delete(context.Background(), 6, 10, 3)

		assert.ErrorIs(t, err, apperrors.ErrNotMessageSender)
		msgRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		msgRepo := &MockChatMessageRepository{}
		msgRepo.On("FindByID", mock.Anything, uint(10), uint(3)).
			Return(&model.ChatMessage{ID: 3, ChatID: 10, UserID: 5}, nil)
		msgRepo.On("Delete", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(nil)

		svc := NewChatMessageService(msgRepo, &MockChatRepository{})
		assert.NoError(t, svc.Delete(context.Background(), 5, 10, 3))
	})
}
