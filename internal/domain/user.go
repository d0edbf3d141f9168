package domain

import (
	"fmt"
	"strings"
)

// User is a CRM operator who may perform conversions.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// DisplayName returns "First Last", the email when both are blank, or the fallback reference.
func (u User) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return UserReference(u.ID)
}

// UserReference is the textual stand-in for a user that cannot be resolved.
func UserReference(id int64) string {
	return fmt.Sprintf("User #%d", id)
}
