package constants

import "time"

// Session / auth
const (
	SessionCookieName   = "taskdeck_session"
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"

	// TokenLifetime is the fixed lifetime of a session token.
	TokenLifetime = 2 * time.Hour
)

// Login throttling
const (
	MaxLoginFailures = 5
	LockoutDuration  = 15 * time.Minute
)

// Password reset
const (
	ResetTokenLifetime = 1 * time.Hour
)

// Validation limits
const (
	MinPasswordLength = 8
	MinUserAge        = 13
	MaxTitleLength    = 100
	MaxDetailLength   = 500
)

// Task date/time input layouts
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
