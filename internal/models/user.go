package models

import "time"

// User is a stored credential. PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Credentials is the login/register request body.
type Credentials struct {
	Username string `json:"username" validate:"required,notblank,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}
