package model

import "time"

// User roles. Authorization is a capability check on this closed set, there is
// no role hierarchy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds identity and profile data. The authentication secret lives in
// Credential so that leaking a user row never leaks a password hash.
//
// A non-nil VerificationToken means the user is freshly registered or mid
// verification; the token is cleared only when a password is first set.
type User struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	Email              string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName          *string    `json:"firstName,omitempty" gorm:"size:255"`
	LastName           *string    `json:"lastName,omitempty" gorm:"size:255"`
	EmailVerified      bool       `json:"emailVerified" gorm:"not null;default:false"`
	IsApproved         bool       `json:"isApproved" gorm:"not null;default:false"`
	Role               string     `json:"role" gorm:"size:50;not null;default:'user'"`
	VerificationToken  *string    `json:"-" gorm:"uniqueIndex;size:255"`
	PasswordResetToken *string    `json:"-" gorm:"uniqueIndex;size:255"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relations
	Credential *Credential   `json:"credential,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Chats      []Chat        `json:"-" gorm:"many2many:chat_users;"`
	Messages   []ChatMessage `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin reports whether the account is in a loginable state. The password
// itself is checked separately against the credential.
func (u *User) CanLogin() bool {
	return u.EmailVerified && u.IsApproved && u.Credential != nil
}
