package domain

import (
	"regexp"
	"time"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// User is an account that can own carts. Guest users are swept by the reaper.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Guest     bool      `json:"guest"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidateUsername reports a ValidationError unless name is 1-64 characters of letters,
// digits, '.', '_' or '-'.
func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return Invalid("username", "must be 1-64 characters of letters, digits, '.', '_' or '-'")
	}
	return nil
}
