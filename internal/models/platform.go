package models

import "time"

// Platform identifies a client application allowed to log in.
// Each platform carries its own shared secret, checked independently
// of the user's password during login.
type Platform struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name  string `gorm:"type:text;not null;uniqueIndex"` // Platform name (web, admin, mobile).
	Token string `gorm:"type:text;not null"`             // Shared platform secret.

	IsActive bool `gorm:"not null;default:true"` // Whether logins from this platform are accepted.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
