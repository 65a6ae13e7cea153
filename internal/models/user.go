package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents an admin-surface account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name     string `gorm:"type:text;not null"`             // Display name.
	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Phone    string `gorm:"type:text;not null;uniqueIndex"` // Unique phone number, alternate login identifier.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Role string `gorm:"type:text;not null;default:'member'"` // One of superAdmin, admin, member.

	Permissions datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Permission matrix keyed by module.

	IsActive   bool `gorm:"not null;default:true"`  // Whether the account can sign in.
	IsVerified bool `gorm:"not null;default:false"` // Whether the account passed verification.

	CreatedBy uint64  `gorm:"not null;default:0"` // Creating principal ID, 0 for seeded accounts.
	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
