package auth

import (
	"sync"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/constants"
)

// throttleEntry tracks consecutive login failures for a single email.
type throttleEntry struct {
	failures    int
	lockedUntil time.Time
}

// LoginThrottle counts failed login attempts per email and enforces a
// temporary lockout. State is process-local only: it is created once at
// startup, shared by all request handlers, and lost on restart.
type LoginThrottle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	now     func() time.Time
}

// NewLoginThrottle creates an empty throttle table.
func NewLoginThrottle() *LoginThrottle {
	return &LoginThrottle{
		entries: make(map[string]*throttleEntry),
		now:     time.Now,
	}
}

// IsLocked reports whether the email is currently locked out. Callers must
// check this before comparing credentials, so a locked account never gets
// another verification attempt.
func (t *LoginThrottle) IsLocked(email string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[email]
	if !ok {
		return false
	}
	return entry.lockedUntil.After(t.now())
}

// RemainingLockout returns how long the email stays locked, zero if it is
// not locked.
func (t *LoginThrottle) RemainingLockout(email string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[email]
	if !ok {
		return 0
	}
	remaining := entry.lockedUntil.Sub(t.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RecordFailure registers a failed attempt. Once the failure count reaches
// the threshold the email is locked for the lockout duration; the count is
// not reset at that point, only a later success resets it.
func (t *LoginThrottle) RecordFailure(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[email]
	if !ok {
		entry = &throttleEntry{}
		t.entries[email] = entry
	}

	entry.failures++
	if entry.failures >= constants.MaxLoginFailures {
		entry.lockedUntil = t.now().Add(constants.LockoutDuration)
	}
}

// RecordSuccess resets the failure count and clears any pending lockout for
// the email.
func (t *LoginThrottle) RecordSuccess(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[email]
	if !ok {
		return
	}
	entry.failures = 0
	entry.lockedUntil = time.Time{}
}
