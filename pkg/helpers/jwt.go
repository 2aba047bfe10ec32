package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// JWTManager mints and verifies the session credential. The secret is
// process-wide configuration established once at startup.
type JWTManager struct {
	Secret     []byte
	SessionTTL time.Duration
}

func NewJWTManager(secret string, sessionTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:     []byte(secret),
		SessionTTL: sessionTTL,
	}
}

// SessionClaims are the identity claims bound into the session token.
type SessionClaims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// Issue mints a signed, time-limited session token for the user.
func (m *JWTManager) Issue(userID, email, firstName, lastName string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.SessionTTL)
	claims := &SessionClaims{
		UserID:    userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify parses and validates a session token, distinguishing expiry from
// any other validation failure.
func (m *JWTManager) Verify(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
