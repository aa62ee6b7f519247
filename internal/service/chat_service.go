package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "chathub/internal/errors"
	"chathub/internal/model"
	"chathub/internal/repository"
)

// ChatService owns chat rooms and their memberships.
type ChatService interface {
	ListForUser(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, error)
	Get(ctx context.Context, chatID uint) (*model.Chat, error)
	// Create makes a room with the creator as owner and the given users as
	// members. Fails if any listed user does not exist.
	Create(ctx context.Context, creatorID uint, name *string, memberIDs []uint) (*model.Chat, error)
	Rename(ctx context.Context, chatID uint, name *string) (*model.Chat, error)
	Delete(ctx context.Context, chatID uint) error
	AddMember(ctx context.Context, chatID, userID uint, role string) (*model.Chat, error)
	UpdateMemberRole(ctx context.Context, chatID, userID uint, role string) (*model.Chat, error)
	RemoveMember(ctx context.Context, chatID, userID uint) (*model.Chat, error)
	ListMembers(ctx context.Context, chatID uint) ([]repository.ChatMember, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

// NewChatService creates a new chat service.
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

func (s *chatService) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, error) {
	return s.chatRepo.ListForUser(ctx, userID, offset, limit)
}

func (s *chatService) Get(ctx context.Context, chatID uint) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("find chat: %w", err)
	}
	return chat, nil
}

func (s *chatService) Create(ctx context.Context, creatorID uint, name *string, memberIDs []uint) (*model.Chat, error) {
	// Validate the member list up front so the room is never half-populated.
	members := make([]uint, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == creatorID {
			continue
		}
		if _, err := s.userRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, fmt.Errorf("find user %d: %w", id, err)
		}
		members = append(members, id)
	}

	// Room row and memberships land in one transaction; a failed member
	// insert leaves no half-populated room behind.
	chat := &model.Chat{Name: name}
	err := s.chatRepo.WithTransaction(ctx, func(ctx context.Context, chats repository.ChatRepository, _ repository.ChatMessageRepository) error {
		if err := chats.Create(ctx, chat); err != nil {
			return fmt.Errorf("create chat: %w", err)
		}
		if err := chats.AddMember(ctx, chat.ID, creatorID, model.ChatRoleOwner); err != nil {
			return fmt.Errorf("add owner: %w", err)
		}
		for _, id := range members {
			if err := chats.AddMember(ctx, chat.ID, id, model.ChatRoleMember); err != nil {
				return fmt.Errorf("add member %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, chat.ID)
}

func (s *chatService) Rename(ctx context.Context, chatID uint, name *string) (*model.Chat, error) {
	chat, err := s.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		chat.Name = name
	}
	if err := s.chatRepo.Update(ctx, chat); err != nil {
		return nil, fmt.Errorf("update chat: %w", err)
	}
	return chat, nil
}

func (s *chatService) Delete(ctx context.Context, chatID uint) error {
	chat, err := s.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if err := s.chatRepo.Delete(ctx, chat); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}

func (s *chatService) AddMember(ctx context.Context, chatID, userID uint, role string) (*model.Chat, error) {
	if _, err := s.Get(ctx, chatID); err != nil {
		return nil, err
	}
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	isMember, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if isMember {
		return nil, apperrors.ErrAlreadyInChat
	}

	if role == "" {
		role = model.ChatRoleMember
	}
	if err := s.chatRepo.AddMember(ctx, chatID, userID, role); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return s.Get(ctx, chatID)
}

func (s *chatService) UpdateMemberRole(ctx context.Context, chatID, userID uint, role string) (*model.Chat, error) {
	if err := s.ensureMembership(ctx, chatID, userID); err != nil {
		return nil, err
	}
	if err := s.chatRepo.UpdateMemberRole(ctx, chatID, userID, role); err != nil {
		return nil, fmt.Errorf("update member role: %w", err)
	}
	return s.Get(ctx, chatID)
}

func (s *chatService) RemoveMember(ctx context.Context, chatID, userID uint) (*model.Chat, error) {
	if err := s.ensureMembership(ctx, chatID, userID); err != nil {
		return nil, err
	}
	if err := s.chatRepo.RemoveMember(ctx, chatID, userID); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	return s.Get(ctx, chatID)
}

func (s *chatService) ListMembers(ctx context.Context, chatID uint) ([]repository.ChatMember, error) {
	if _, err := s.Get(ctx, chatID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMembers(ctx, chatID)
}

func (s *chatService) ensureUserExists(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return nil
}

func (s *chatService) ensureMembership(ctx context.Context, chatID, userID uint) error {
	if _, err := s.Get(ctx, chatID); err != nil {
		return err
	}
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return err
	}
	isMember, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return apperrors.ErrUserNotInChat
	}
	return nil
}
