package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTP helpers

const otpSpace = 1000000 // codes "000000".."999999"

// GenOTPCode generates a random 6-digit OTP code as a zero-padded string,
// uniform over the full code space.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPExpiryFrom returns the expiry timestamp for a code issued at now.
func OTPExpiryFrom(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}

// IsOTPExpired reports whether the stored expiry has passed at the given time.
func IsOTPExpired(expiry, now time.Time) bool {
	return now.After(expiry)
}
