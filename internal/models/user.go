package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	// Sessions are ordered by creation time, oldest first.
	Sessions  []Session
	CreatedAt time.Time
	UpdatedAt time.Time
}
