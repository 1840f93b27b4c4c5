package entities

import "github.com/google/uuid"

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Role             string    `gorm:"not null;index" json:"role"` // HOSTEL, NGO, AWC
	OrganizationName string    `gorm:"not null" json:"organization_name"`
	Email            string    `gorm:"not null;uniqueIndex" json:"email"`
	Password         string    `gorm:"not null" json:"-"`
	Phone            string    `gorm:"not null" json:"phone"`
	Address          string    `gorm:"not null" json:"address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Timestamp
}
