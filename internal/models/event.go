package models

import "time"

// Event represents an organization event. The (title, date) pair is
// unique so resubmitting the same event is rejected by the index.
type Event struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title string    `gorm:"type:text;not null;uniqueIndex:idx_events_title_date"` // Event title.
	Date  time.Time `gorm:"not null;uniqueIndex:idx_events_title_date"`           // Scheduled date.

	Venue       string `gorm:"type:text"`                    // Where the event happens.
	Category    string `gorm:"type:text;index"`              // Event category.
	Status      string `gorm:"type:text;default:'upcoming'"` // upcoming, ongoing, completed, cancelled.
	Description string `gorm:"type:text"`                    // Long description.
	ImageURL    string `gorm:"type:text"`                    // Poster image location.

	CreatedBy uint64  `gorm:"not null"` // Creating principal ID.
	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
