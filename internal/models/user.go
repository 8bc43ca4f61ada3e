package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted account record. PasswordHash and RefreshToken never
// leave the server; the json tags enforce that on every response path.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	FullName      string    `json:"full_name" db:"full_name"`
	AvatarURL     string    `json:"avatar_url" db:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty" db:"cover_image_url"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	RefreshToken  *string   `json:"-" db:"refresh_token"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
