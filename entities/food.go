package entities

import (
	"time"

	"github.com/google/uuid"
)

type Food struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	VegType       string    `gorm:"not null" json:"veg_type"`              // VEG, NON-VEG
	WasteFoodType string    `gorm:"not null;index" json:"waste_food_type"` // Fresh Food, Plate Waste
	FoodName      string    `gorm:"not null" json:"food_name"`
	Quantity      float64   `gorm:"not null" json:"quantity"` // kg
	CookedTime    time.Time `gorm:"not null" json:"cooked_time"`
	ExpiryTime    time.Time `gorm:"not null;index" json:"expiry_time"`
	WastageReason string    `gorm:"not null" json:"wastage_reason"`
	Available     bool      `gorm:"not null;default:true;index" json:"available"`
	ImageURL      string    `json:"image_url,omitempty"`
	Timestamp
}
