package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account reachable by email, phone or both. The
// contact columns are pointers so an absent channel is stored as NULL
// and stays out of the unique indexes.
type User struct {
	BaseModel
	Name         string  `json:"name"`
	EmailAddress *string `gorm:"uniqueIndex;size:254" json:"email_address,omitempty"`
	PhoneNumber  *string `gorm:"uniqueIndex;size:50" json:"phone_number,omitempty"`
	ImagePath    string  `json:"image_path,omitempty"`
}

// Contact returns the user's preferred contact channel, email first.
func (u *User) Contact() string {
	if u.EmailAddress != nil && *u.EmailAddress != "" {
		return *u.EmailAddress
	}
	if u.PhoneNumber != nil {
		return *u.PhoneNumber
	}
	return ""
}

// Otp is the single live one-time code for a user. Issuing a new code
// overwrites the previous row, so at most one exists per user.
type Otp struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshSession backs one long-lived refresh token. Only a bcrypt hash
// of the token secret is stored; the plaintext leaves the process exactly
// once, at issuance.
type RefreshSession struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	SecretHash string    `json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	AddedBy    string    `json:"added_by"`
}
