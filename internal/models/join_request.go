package models

import "time"

// JoinRequest represents a membership application. Phone numbers are
// unique so the same applicant cannot apply twice.
type JoinRequest struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name    string `gorm:"type:text;not null"`             // Applicant name.
	Phone   string `gorm:"type:text;not null;uniqueIndex"` // Applicant phone, unique per application.
	Email   string `gorm:"type:text"`                      // Applicant email.
	Address string `gorm:"type:text"`                      // Postal address.

	Status string `gorm:"type:text;default:'pending';index"` // pending, approved, rejected.

	IsActive bool `gorm:"not null;default:true"` // Soft-delete flag.

	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
