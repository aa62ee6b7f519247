package model

import "time"

// Per-membership roles inside a chat room.
const (
	ChatRoleMember = "member"
	ChatRoleAdmin  = "admin"
	ChatRoleOwner  = "owner"
)

// Chat is a multi-user chat room. LastUsed is bumped whenever a message is
// posted so room lists can be ordered by recency.
type Chat struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      *string   `json:"name,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastUsed  time.Time `json:"lastUsed"`

	// Relations
	Users    []User        `json:"users,omitempty" gorm:"many2many:chat_users;"`
	Messages []ChatMessage `json:"-" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
}

// ChatUser is the membership junction row between Chat and User, carrying the
// per-membership role. Wired into GORM with SetupJoinTable at boot.
type ChatUser struct {
	ChatID   uint      `json:"chatId" gorm:"primaryKey"`
	UserID   uint      `json:"userId" gorm:"primaryKey"`
	JoinedAt time.Time `json:"joinedAt" gorm:"autoCreateTime"`
	Role     string    `json:"role" gorm:"size:50;not null;default:'member'"`
}

// TableName pins the join table name the many2many tags reference.
func (ChatUser) TableName() string {
	return "chat_users"
}
