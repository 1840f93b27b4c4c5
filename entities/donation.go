package entities

import (
	"time"

	"github.com/google/uuid"
)

type Donation struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	HostelID       uuid.UUID `gorm:"type:uuid;not null;index" json:"hostel_id"`
	FoodID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"food_id"`
	DonateDateTime time.Time `gorm:"not null" json:"donate_date_time"`

	Hostel *User `gorm:"foreignKey:HostelID"`
	Food   *Food `gorm:"foreignKey:FoodID"`
}
