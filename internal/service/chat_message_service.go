package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "chathub/internal/errors"
	"chathub/internal/model"
	"chathub/internal/repository"
)

// ChatMessageService owns message CRUD inside a chat room. Posting requires
// membership; updating and deleting require being the sender.
type ChatMessageService interface {
	List(ctx context.Context, chatID uint, offset, limit int) ([]model.ChatMessage, error)
	Get(ctx context.Context, chatID, messageID uint) (*model.ChatMessage, error)
	Create(ctx context.Context, senderID, chatID uint, text string) (*model.ChatMessage, error)
	Update(ctx context.Context, actorID, chatID, messageID uint, text string) (*model.ChatMessage, error)
	Delete(ctx context.Context, actorID, chatID, messageID uint) error
}

type chatMessageService struct {
	msgRepo  repository.ChatMessageRepository
	chatRepo repository.ChatRepository
}

// NewChatMessageService creates a new chat message service.
func NewChatMessageService(msgRepo repository.ChatMessageRepository, chatRepo repository.ChatRepository) ChatMessageService {
	return &chatMessageService{
		msgRepo:  msgRepo,
		chatRepo: chatRepo,
	}
}

func (s *chatMessageService) List(ctx context.Context, chatID uint, offset, limit int) ([]model.ChatMessage, error) {
	if err := s.ensureChatExists(ctx, chatID); err != nil {
		return nil, err
	}
	return s.msgRepo.ListForChat(ctx, chatID, offset, limit)
}

func (s *chatMessageService) Get(ctx context.Context, chatID, messageID uint) (*model.ChatMessage, error) {
	msg, err := s.msgRepo.FindByID(ctx, chatID, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return msg, nil
}

func (s *chatMessageService) Create(ctx context.Context, senderID, chatID uint, text string) (*model.ChatMessage, error) {
	if err := s.ensureChatExists(ctx, chatID); err != nil {
		return nil, err
	}

	isMember, err := s.chatRepo.IsMember(ctx, chatID, senderID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, apperrors.ErrNotChatMember
	}

	// Message row and room recency commit together, so an error response
	// never leaves a committed message behind.
	msg := &model.ChatMessage{
		ChatID:  chatID,
		UserID:  senderID,
		Message: text,
	}
	err = s.chatRepo.WithTransaction(ctx, func(ctx context.Context, chats repository.ChatRepository, msgs repository.ChatMessageRepository) error {
		if err := msgs.Create(ctx, msg); err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		if err := chats.TouchLastUsed(ctx, chatID, time.Now()); err != nil {
			return fmt.Errorf("touch chat: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *chatMessageService) Update(ctx context.Context, actorID, chatID, messageID uint, text string) (*model.ChatMessage, error) {
	msg, err := s.Get(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.UserID != actorID {
		return nil, apperrors.ErrNotMessageSender
	}

	msg.Message = text
	if err := s.msgRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	return msg, nil
}

func (s *chatMessageService) Delete(ctx context.Context, actorID, chatID, messageID uint) error {
	msg, err := s.Get(ctx, chatID, messageID)
	if err != nil {
		return err
	}
	if msg.UserID != actorID {
		return apperrors.ErrNotMessageSender
	}

	if err := s.msgRepo.Delete(ctx, msg); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (s *chatMessageService) ensureChatExists(ctx context.Context, chatID uint) error {
	if _, err := s.chatRepo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrChatNotFound
		}
		return fmt.Errorf("find chat: %w", err)
	}
	return nil
}
