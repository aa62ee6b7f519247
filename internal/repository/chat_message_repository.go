package repository

import (
	"context"

	"gorm.io/gorm"

	"chathub/internal/model"
)

// ChatMessageRepository defines message persistence operations.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	Update(ctx context.Context, msg *model.ChatMessage) error
	Delete(ctx context.Context, msg *model.ChatMessage) error
	FindByID(ctx context.Context, chatID, messageID uint) (*model.ChatMessage, error)
	// ListForChat returns the chat's messages newest first.
	ListForChat(ctx context.Context, chatID uint, offset, limit int) ([]model.ChatMessage, error)
}

type chatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository builds a GORM-backed message repository.
func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatMessageRepository) Update(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

func (r *chatMessageRepository) Delete(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Delete(msg).Error
}

func (r *chatMessageRepository) FindByID(ctx context.Context, chatID, messageID uint) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	if err := r.db.WithContext(ctx).Preload("Sender").
		Where("id = ? AND chat_id = ?", messageID, chatID).
		First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatMessageRepository) ListForChat(ctx context.Context, chatID uint, offset, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
