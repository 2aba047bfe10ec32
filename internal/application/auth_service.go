package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/findmyroom/findmyroom-api/internal/domain/entity"
	repo "github.com/findmyroom/findmyroom-api/internal/domain/repository"
	"github.com/findmyroom/findmyroom-api/pkg/helpers"
)

// AuthService orchestrates the local credential lifecycle: signup, login and
// the forgot/verify/reset password flow. Hashing is always an explicit call
// here, never a side effect of persistence.
type AuthService struct {
	Repo       repo.UserRepository
	Notifier   Notifier
	Logger     *logrus.Logger
	BcryptCost int
	OTPTTL     time.Duration

	now func() time.Time
}

func NewAuthService(r repo.UserRepository, notifier Notifier, logger *logrus.Logger, bcryptCost int, otpTTL time.Duration) *AuthService {
	return &AuthService{
		Repo:       r,
		Notifier:   notifier,
		Logger:     logger,
		BcryptCost: bcryptCost,
		OTPTTL:     otpTTL,
		now:        time.Now,
	}
}

// Profile is the public view of a user; it never carries the password hash.
type Profile struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsVerified     bool   `json:"isVerified"`
}

func profileOf(u *entity.User) *Profile {
	return &Profile{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		IsVerified:     u.IsVerified,
	}
}

// SanitizeEmail normalizes an email for use as a lookup key.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Profile, error) {
	email := SanitizeEmail(in.Email)

	_, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, &StoreError{Op: "get by email", Err: err}
	}

	if ok, reason := helpers.ValidatePassword(in.Password); !ok {
		return nil, &WeakPasswordError{Reason: reason}
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateUser) {
			// lost a race with a concurrent signup for the same email
			return nil, ErrUserExists
		}
		return nil, &StoreError{Op: "create", Err: err}
	}
	return profileOf(u), nil
}

// Login validates the credential pair. Unknown email and wrong password yield
// the same error so responses cannot reveal whether an account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Profile, error) {
	u, err := s.Repo.GetByEmail(ctx, SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &StoreError{Op: "get by email", Err: err}
	}
	if !u.HasPassword() || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return profileOf(u), nil
}

// ForgotPassword issues a fresh OTP, overwriting any prior one, and dispatches
// it through the notification collaborator. The code is never echoed back.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = SanitizeEmail(email)
	if _, err := s.Repo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return &StoreError{Op: "get by email", Err: err}
	}

	otp, err := helpers.GenOTPCode()
	if err != nil {
		return err
	}
	expiry := helpers.OTPExpiryFrom(s.now(), s.OTPTTL)

	if err := s.Repo.SetResetOTP(ctx, email, otp, expiry); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return &StoreError{Op: "set reset otp", Err: err}
	}

	if err := s.Notifier.SendOTP(ctx, email, otp); err != nil {
		return ErrNotificationFailed
	}

	if s.Logger != nil {
		s.Logger.WithField("email", email).Info("password reset otp issued")
	}
	return nil
}

// checkOTP verifies the submitted code against the stored state: exact match
// first, then expiry, so a wrong code reports ErrOTPInvalid even when the
// stored one has also expired.
func (s *AuthService) checkOTP(u *entity.User, otp string) error {
	if u.ResetOTP == nil || u.ResetOTPExpiry == nil {
		return ErrOTPInvalid
	}
	if *u.ResetOTP != otp {
		return ErrOTPInvalid
	}
	if helpers.IsOTPExpired(*u.ResetOTPExpiry, s.now()) {
		return ErrOTPExpired
	}
	return nil
}

// VerifyOTP checks a submitted code without consuming it; consumption only
// happens when the password is actually reset.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	u, err := s.Repo.GetByEmail(ctx, SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return &StoreError{Op: "get by email", Err: err}
	}
	if u.ResetOTP == nil {
		return ErrUserNotFound
	}
	return s.checkOTP(u, otp)
}

// ResetPassword swaps the credential and clears the OTP in one atomic store
// operation, so a retried reset with an already-consumed code fails.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if ok, reason := helpers.ValidatePassword(newPassword); !ok {
		return &WeakPasswordError{Reason: reason}
	}

	email = SanitizeEmail(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return &StoreError{Op: "get by email", Err: err}
	}
	if err := s.checkOTP(u, otp); err != nil {
		return err
	}

	hash, err := helpers.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return err
	}

	if err := s.Repo.ConsumeOTPAndSetPassword(ctx, email, otp, hash); err != nil {
		if errors.Is(err, repo.ErrOTPMismatch) {
			// a concurrent reset consumed the code between check and swap
			return ErrOTPInvalid
		}
		return &StoreError{Op: "consume otp", Err: err}
	}

	if s.Logger != nil {
		s.Logger.WithField("email", email).Info("password reset completed")
	}
	return nil
}

// GetProfile returns the public profile for an authenticated user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, &StoreError{Op: "get by id", Err: err}
	}
	return profileOf(u), nil
}
