package application

import (
	"errors"
	"fmt"
)

// Use-case outcomes surfaced to the HTTP boundary. Handlers map these to
// statuses; anything not in this set is treated as internal and its detail
// is logged but never sent to the client.
var (
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPInvalid         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired")
	ErrNotificationFailed = errors.New("failed to send OTP email")
)

// WeakPasswordError carries the policy's human-readable reason verbatim.
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string { return e.Reason }

// StoreError wraps a credential-store failure so callers can classify it as
// retryable without seeing driver detail.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("credential store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
