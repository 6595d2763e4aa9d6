package domain

import "time"

// User is an account owning tasks and reminders.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Public returns a copy of u without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
