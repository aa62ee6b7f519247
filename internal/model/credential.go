package model

import "time"

// Credential is the authentication record, 1:1 with User and cascade-deleted
// with it. Kept in its own table so the secret has a smaller blast radius.
type Credential struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"userId" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
