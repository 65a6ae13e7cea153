package models

import "time"

// SessionToken records the live token for a (user, platform) pair.
// A new login on the same platform replaces the previous row, so each
// device platform holds at most one valid token record.
type SessionToken struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID   uint64 `gorm:"not null;uniqueIndex:idx_session_user_platform"`           // Owning user ID.
	Platform string `gorm:"type:text;not null;uniqueIndex:idx_session_user_platform"` // Client platform name.

	Token        string `gorm:"type:text;not null"` // Issued JWT.
	DeviceDetail string `gorm:"type:text"`          // Free-form device descriptor from the client.

	ExpiresAt time.Time `gorm:"not null"`                // Token expiry.
	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
