package models

import "time"

// Query represents a question or complaint submitted by a member of
// the public and tracked until resolution.
type Query struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name    string `gorm:"type:text;not null"` // Submitter name.
	Phone   string `gorm:"type:text;index"`    // Submitter contact number.
	Subject string `gorm:"type:text;not null"` // Topic line.
	Message string `gorm:"type:text"`          // Full message body.

	Status   string `gorm:"type:text;default:'pending';index"` // pending, resolved.
	Priority string `gorm:"type:text;default:'normal'"`        // Triage priority.

	ResolvedAt *time.Time // When the query was marked resolved.

	IsActive bool `gorm:"not null;default:true"` // Soft-delete flag.

	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
