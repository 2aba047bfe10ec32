package repository

import (
	"context"
	"errors"
	"time"

	"github.com/findmyroom/findmyroom-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when a create would violate email or
	// google_id uniqueness.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrOTPMismatch is returned by ConsumeOTPAndSetPassword when the stored
	// code no longer matches, including the case where a concurrent reset
	// already consumed it.
	ErrOTPMismatch = errors.New("otp does not match stored code")
)

// UserRepository is the credential store contract. Emails passed in are
// expected to be sanitized (trimmed, lowercased) by the caller.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// AttachGoogleID links a federated identity to an existing account.
	// The picture is only applied when the user has none yet.
	AttachGoogleID(ctx context.Context, userID, googleID, picture string) error

	// SetResetOTP stores a one-time code and its expiry for the user,
	// overwriting any previous code.
	SetResetOTP(ctx context.Context, email, otp string, expiry time.Time) error

	// ConsumeOTPAndSetPassword swaps the password hash and clears the OTP
	// fields in a single conditional update keyed on the still-matching code.
	// Exactly one of two racing calls with the same code can succeed; the
	// loser gets ErrOTPMismatch.
	ConsumeOTPAndSetPassword(ctx context.Context, email, otp, newHash string) error
}
