package model

import "time"

// ChatMessage is a message posted into a chat room, owned by its sender.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChatID    uint      `json:"chatId" gorm:"index;not null"`
	UserID    uint      `json:"userId" gorm:"index;not null"` // sender
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Sender *User `json:"sender,omitempty" gorm:"foreignKey:UserID"`
}
