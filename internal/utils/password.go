package utils

import (
	"regexp"

	"github.com/taskdeck/taskdeck-api/internal/constants"
)

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasSpecial = regexp.MustCompile(`\W`)
)

// ValidPassword reports whether a password meets the complexity policy:
// at least 8 characters with one uppercase, one lowercase, and one
// non-word character.
func ValidPassword(password string) bool {
	if len(password) < constants.MinPasswordLength {
		return false
	}
	return hasUpper.MatchString(password) &&
		hasLower.MatchString(password) &&
		hasSpecial.MatchString(password)
}
