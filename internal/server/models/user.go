package models

import "time"

// User is a registered account. Email is stored normalized (trimmed,
// lower-case) and is unique; PasswordHash is a bcrypt digest.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
