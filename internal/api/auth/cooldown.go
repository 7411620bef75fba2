package auth

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResendLimiter throttles OTP issuance per email. The window matches the
// frontend's resend cooldown so the server is not relying on client behavior.
type ResendLimiter struct {
	entries *gocache.Cache
	window  time.Duration
}

func NewResendLimiter(window time.Duration) *ResendLimiter {
	if window <= 0 {
		return &ResendLimiter{}
	}
	return &ResendLimiter{
		entries: gocache.New(window, 2*window),
		window:  window,
	}
}

// Allow reports whether an OTP may be issued for email now, and if so starts
// a new cooldown window.
func (l *ResendLimiter) Allow(email string) bool {
	if l.entries == nil {
		return true
	}
	if _, found := l.entries.Get(email); found {
		return false
	}
	l.entries.Set(email, struct{}{}, l.window)
	return true
}
