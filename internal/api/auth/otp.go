package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Engine-level verification outcomes. The service collapses all three into one
// client-facing failure; tests assert on them individually.
var (
	ErrOTPNotRequested = errors.New("no OTP pending for this user")
	ErrOTPInvalid      = errors.New("submitted OTP does not match")
	ErrOTPExpired      = errors.New("pending OTP has expired")
)

// otpMin and otpSpan bound the 6-digit code space [100000, 999999].
const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP draws a 6-digit code uniformly at random.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", otpMin+n.Int64()), nil
}

// OTPEngine issues and verifies one-time codes against the credential store.
type OTPEngine struct {
	repo UserRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewOTPEngine(repo UserRepo, ttl time.Duration) *OTPEngine {
	return &OTPEngine{repo: repo, ttl: ttl, now: time.Now}
}

// Issue generates a fresh code, persists it on the user with its expiry, and
// returns it for delivery. A previously pending code is overwritten.
func (e *OTPEngine) Issue(ctx context.Context, user *User) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	expiresAt := e.now().Add(e.ttl)

	if err := e.repo.SetPendingOTP(ctx, user.ID, code, expiresAt); err != nil {
		return "", err
	}
	user.OTP = &code
	user.OTPExpiresAt = &expiresAt
	return code, nil
}

// Verify checks the submitted code against the pending one. Expiry is checked
// independently of code equality; both must pass. On success the pending pair
// is cleared and persisted; on failure the stored state is left untouched.
func (e *OTPEngine) Verify(ctx context.Context, user *User, submitted string) error {
	if user.OTP == nil || user.OTPExpiresAt == nil {
		return ErrOTPNotRequested
	}
	expired := !e.now().Before(*user.OTPExpiresAt)
	if expired {
		return ErrOTPExpired
	}
	if *user.OTP != submitted {
		return ErrOTPInvalid
	}

	if err := e.repo.ClearPendingOTP(ctx, user.ID); err != nil {
		return err
	}
	user.OTP = nil
	user.OTPExpiresAt = nil
	return nil
}
