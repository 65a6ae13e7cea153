package models

import "time"

// Donation records a received donation. Receipt numbers are unique so
// the same receipt cannot be entered twice.
type Donation struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	DonorName string `gorm:"type:text;not null"`             // Donor display name.
	Phone     string `gorm:"type:text"`                      // Donor contact number.
	ReceiptNo string `gorm:"type:text;not null;uniqueIndex"` // Unique receipt number.

	Amount      int64  `gorm:"not null"`                     // Amount in the smallest currency unit.
	PaymentMode string `gorm:"type:text;index"`              // cash, upi, bank, cheque.
	Status      string `gorm:"type:text;default:'received'"` // received, pending, refunded.

	DonatedAt time.Time `gorm:"not null"` // When the donation was made.

	IsActive bool `gorm:"not null;default:true"` // Soft-delete flag.

	CreatedBy uint64  `gorm:"not null"` // Creating principal ID.
	UpdatedBy *uint64 // Last updating principal ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
