package models

import "time"

// Video represents a published video entry.
type Video struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title    string `gorm:"type:text;not null;uniqueIndex:idx_videos_title_url"` // Video title.
	VideoURL string `gorm:"type:text;not null;uniqueIndex:idx_videos_title_url"` // Source URL.

	Category  string `gorm:"type:text;index"` // Video category.
	Thumbnail string `gorm:"type:text"`       // Thumbnail image location.

	Views uint64 `gorm:"not null;default:0"` // Play counter, incremented atomically on fetch.

	CreatedBy uint64  `gorm:"not null"` // Creating principal ID.
	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
