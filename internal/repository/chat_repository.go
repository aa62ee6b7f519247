package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chathub/internal/model"
)

// ChatMember is the membership projection returned when listing a chat's
// users: profile fields joined with the junction row.
type ChatMember struct {
	UserID   uint      `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ChatRepository defines chat room and membership persistence operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	Update(ctx context.Context, chat *model.Chat) error
	Delete(ctx context.Context, chat *model.Chat) error
	FindByID(ctx context.Context, id uint) (*model.Chat, error)
	// ListForUser returns the chats the user belongs to, most recently used first.
	ListForUser(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, error)
	AddMember(ctx context.Context, chatID, userID uint, role string) error
	UpdateMemberRole(ctx context.Context, chatID, userID uint, role string) error
	RemoveMember(ctx context.Context, chatID, userID uint) error
	IsMember(ctx context.Context, chatID, userID uint) (bool, error)
	ListMembers(ctx context.Context, chatID uint) ([]ChatMember, error)
	// TouchLastUsed bumps the recency timestamp with a single UPDATE.
	TouchLastUsed(ctx context.Context, chatID uint, at time.Time) error
	// WithTransaction runs fn against transaction-bound chat and message
	// repositories. Used where a room and its memberships, or a message and
	// the room's recency, must change together.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, chats ChatRepository, msgs ChatMessageRepository) error) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository builds a GORM-backed chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepository) Update(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Save(chat).Error
}

func (r *chatRepository) Delete(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Select("Messages", "Users").Delete(chat).Error
}

func (r *chatRepository) FindByID(ctx context.Context, id uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.WithContext(ctx).Preload("Users").First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_users ON chat_users.chat_id = chats.id").
		Where("chat_users.user_id = ?", userID).
		Preload("Users").
		Order("chats.last_used DESC").
		Offset(offset).Limit(limit).
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepository) AddMember(ctx context.Context, chatID, userID uint, role string) error {
	member := model.ChatUser{
		ChatID: chatID,
		UserID: userID,
		Role:   role,
	}
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *chatRepository) UpdateMemberRole(ctx context.Context, chatID, userID uint, role string) error {
	return r.db.WithContext(ctx).Model(&model.ChatUser{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("role", role).Error
}

func (r *chatRepository) RemoveMember(ctx context.Context, chatID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&model.ChatUser{}).Error
}

func (r *chatRepository) IsMember(ctx context.Context, chatID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ChatUser{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *chatRepository) ListMembers(ctx context.Context, chatID uint) ([]ChatMember, error) {
	var members []ChatMember
	err := r.db.WithContext(ctx).Model(&model.ChatUser{}).
		Select("chat_users.user_id, users.email, COALESCE(credentials.username, '') AS username, chat_users.role, chat_users.joined_at").
		Joins("JOIN users ON users.id = chat_users.user_id").
		Joins("LEFT JOIN credentials ON credentials.user_id = users.id").
		Where("chat_users.chat_id = ?", chatID).
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *chatRepository) TouchLastUsed(ctx context.Context, chatID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]interface{}{"last_used": at, "updated_at": at}).Error
}

func (r *chatRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, chats ChatRepository, msgs ChatMessageRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &chatRepository{db: tx}, &chatMessageRepository{db: tx})
	})
}
