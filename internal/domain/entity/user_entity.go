package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// PasswordHash holds a bcrypt digest and is empty for accounts created purely
// via Google sign-in. ResetOTP and ResetOTPExpiry are either both set or both
// nil; they are cleared together when a password reset consumes the code.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string // stored lowercased; unique
	PasswordHash   string
	GoogleID       string // optional federated subject id; unique when set
	ProfilePicture string
	IsVerified     bool
	ResetOTP       *string
	ResetOTPExpiry *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasPassword reports whether the account can authenticate with a local credential.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// HasGoogleLink reports whether a federated identity is attached.
func (u *User) HasGoogleLink() bool {
	return u.GoogleID != ""
}
