package models

import (
	"strings"
	"time"
)

// User represents a user account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName returns the first word of the user's name.
func (u *User) DisplayName() string {
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return u.Name
}

// Session binds an opaque bearer token to a user.
type Session struct {
	Token     string
	UserID    int64
	Name      string
	CreatedAt time.Time
}
