package entities

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"donor_id"`
	ReceiverID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"receiver_id"`
	FoodID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"food_id"`
	Status            string     `gorm:"not null;index" json:"status"` // Started, Failed, Completed
	OTP               *string    `gorm:"column:otp;size:6" json:"-"`
	OTPExpiresAt      *time.Time `gorm:"column:otp_expires_at" json:"otp_expires_at,omitempty"`
	OTPAttempts       int        `gorm:"column:otp_attempts;not null;default:0" json:"-"`
	StartDateTime     time.Time  `gorm:"not null" json:"start_date_time"`
	FailedDateTime    *time.Time `json:"failed_date_time,omitempty"`
	CompletedDateTime *time.Time `json:"completed_date_time,omitempty"`

	Donor    *User `gorm:"foreignKey:DonorID"`
	Receiver *User `gorm:"foreignKey:ReceiverID"`
	Food     *Food `gorm:"foreignKey:FoodID"`
}
