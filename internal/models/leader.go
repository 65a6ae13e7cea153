package models

import "time"

// Leader represents a leadership profile.
type Leader struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:text;not null"` // Full name.
	Designation string `gorm:"type:text"`          // Role within the organization.
	Cadre       string `gorm:"type:text;index"`    // Organizational tier (national, state, district).
	Bio         string `gorm:"type:text"`          // Short biography.
	PhotoURL    string `gorm:"type:text"`          // Portrait image location.

	IsActive bool `gorm:"not null;default:true"` // Whether the profile is published.

	CreatedBy uint64  `gorm:"not null"` // Creating principal ID.
	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
