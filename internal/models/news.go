package models

import "time"

// News represents a news article shown on the public site.
type News struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title    string `gorm:"type:text;not null;uniqueIndex"` // Unique headline.
	Summary  string `gorm:"type:text"`                      // Short teaser text.
	Body     string `gorm:"type:text"`                      // Full article body.
	Category string `gorm:"type:text;index"`                // Editorial category.
	Priority string `gorm:"type:text;default:'normal'"`     // Display priority (high, normal, low).
	ImageURL string `gorm:"type:text"`                      // Cover image location.

	Views uint64 `gorm:"not null;default:0"` // Read counter, incremented atomically on fetch.

	IsActive bool `gorm:"not null;default:true"` // Soft-delete flag.

	CreatedBy uint64  `gorm:"not null"` // Creating principal ID.
	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp, default sort key.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
